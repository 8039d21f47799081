package middleware

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"linkbio/pkg/logger"
	"linkbio/pkg/utils"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// NewLimiter shares buckets through redis when a client is given and keeps
// them in process otherwise.
func NewLimiter(client *redis.Client, perMinute int) Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	if client != nil {
		return NewRedisLimiter(client, perMinute)
	}
	return NewMemoryLimiter(perMinute)
}

const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
  ts = now
else
  local delta = math.max(0, now - ts)
  tokens = math.min(burst, tokens + (delta / 1000) * rate)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, tostring(tokens)}
`

type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	rate   float64
	burst  int
	ttl    time.Duration
}

func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	ratePerSec := float64(perMinute) / 60
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(tokenBucketScript),
		rate:   ratePerSec,
		burst:  perMinute,
		ttl:    time.Duration(math.Ceil(float64(perMinute)/ratePerSec*2)) * time.Second,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key},
		l.rate, l.burst, l.ttl.Milliseconds()).Slice()
	if err != nil {
		return false, 0, err
	}
	if len(res) < 2 {
		return false, 0, errors.New("invalid rate limit script response")
	}

	allowed, _ := res[0].(int64)
	if allowed == 1 {
		return true, 0, nil
	}
	remaining := 0.0
	if s, ok := res[1].(string); ok {
		remaining, _ = strconv.ParseFloat(s, 64)
	}
	return false, time.Duration((1 - remaining) / l.rate * float64(time.Second)), nil
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one x/time/rate limiter per key, pruning idle ones.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	idle     time.Duration
	lastGC   time.Time
}

func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		idle:     10 * time.Minute,
		lastGC:   time.Now(),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastGC) > l.idle {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.visitors, k)
			}
		}
		l.lastGC = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// RateLimitMiddleware limits requests per client IP. Limiter errors let the request through.
func RateLimitMiddleware(limiter Limiter, scope string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		allowed, retryAfter, err := limiter.Allow(ctx, scope+":"+c.ClientIP())
		if err != nil {
			logger.WithContext(ctx, log).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			utils.AbortWithError(c, http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.")
			return
		}
		c.Next()
	}
}
