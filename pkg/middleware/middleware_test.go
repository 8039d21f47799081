package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkbio/pkg/identity"
	"linkbio/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, issuer *utils.TokenIssuer, id uuid.UUID, role string) string {
	t.Helper()
	token, err := issuer.CreateToken(id, "a@b.com", "Ana", role)
	require.NoError(t, err)
	return "Bearer " + token
}

// userTable is a UserLookup over an in-memory set of stored users.
type userTable map[uuid.UUID]identity.Identity

func (u userTable) lookup(_ context.Context, id uuid.UUID) (*identity.Identity, error) {
	if id == brokenUser {
		return nil, errors.New("db down")
	}
	stored, ok := u[id]
	if !ok {
		return nil, nil
	}
	return &stored, nil
}

var brokenUser = uuid.MustParse("00000000-0000-0000-0000-00000000dead")

func TestJWTAuthMiddleware(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	userID := uuid.New()
	users := userTable{userID: {UserID: userID, Email: "a@b.com", Name: "Ana", Role: "FREE"}}

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(issuer, users.lookup, zap.NewNop()), func(c *gin.Context) {
		id, ok := identity.FromGin(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.UserID.String())
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, issuer, userID, "FREE"))
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestJWTAuthMiddlewareRejectsDeletedUser(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	users := userTable{}

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(issuer, users.lookup, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, issuer, uuid.New(), "FREE"))
	w := serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, issuer, brokenUser, "FREE"))
	assert.Equal(t, http.StatusInternalServerError, serve(r, req).Code)
}

func TestOptionalJWTMiddlewareAllowsAnonymous(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	known := uuid.New()
	users := userTable{known: {UserID: known, Role: "FREE"}}

	r := gin.New()
	r.GET("/templates", OptionalJWTMiddleware(issuer, users.lookup, zap.NewNop()), func(c *gin.Context) {
		_, ok := identity.FromGin(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/templates", nil))
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.Header.Set("Authorization", "Bearer expired-or-bad")
	assert.JSONEq(t, `{"authenticated":false}`, serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.Header.Set("Authorization", bearer(t, issuer, uuid.New(), "FREE"))
	assert.JSONEq(t, `{"authenticated":false}`, serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.Header.Set("Authorization", bearer(t, issuer, known, "FREE"))
	assert.JSONEq(t, `{"authenticated":true}`, serve(r, req).Body.String())
}

func TestRoleMiddlewareUsesStoredRole(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	upgraded, downgraded := uuid.New(), uuid.New()
	users := userTable{
		upgraded:   {UserID: upgraded, Role: "PREMIUM"},
		downgraded: {UserID: downgraded, Role: "FREE"},
	}

	r := gin.New()
	r.GET("/domains", JWTAuthMiddleware(issuer, users.lookup, zap.NewNop()), RoleMiddleware("PREMIUM"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", RoleMiddleware("PREMIUM"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/domains", nil)
	req.Header.Set("Authorization", bearer(t, issuer, upgraded, "FREE"))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/domains", nil)
	req.Header.Set("Authorization", bearer(t, issuer, downgraded, "PREMIUM"))
	w := serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "exclusivo para assinantes Premium")

	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/open", nil)).Code)
}

func TestMemoryLimiterBlocksBurst(t *testing.T) {
	limiter := NewMemoryLimiter(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _, err := limiter.Allow(ctx, "auth:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, retry, err := limiter.Allow(ctx, "auth:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))

	ok, _, _ = limiter.Allow(ctx, "auth:5.6.7.8")
	assert.True(t, ok)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return false, 0, errors.New("redis down")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/login", RateLimitMiddleware(NewMemoryLimiter(1), "auth", zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", RateLimitMiddleware(failingLimiter{}, "auth", zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/login", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/open", nil)).Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://app.example/"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTraceIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("trace_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	assert.Equal(t, w.Header().Get("X-Trace-ID"), w.Body.String())
}

type mapResolver map[string]string

func (m mapResolver) ResolveSlug(_ context.Context, host string) (string, error) {
	if host == "broken.example" {
		return "", errors.New("db down")
	}
	return m[host], nil
}

func TestDomainRouter(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	h := DomainRouter(next, "linkbio.app", mapResolver{"ana.example.com": "ana"}, zap.NewNop())

	cases := []struct {
		host   string
		path   string
		status int
		want   string
	}{
		{"ana.example.com", "/", http.StatusOK, "/ana"},
		{"ANA.example.com:443", "/redirect/abc", http.StatusOK, "/redirect/abc"},
		{"linkbio.app", "/", http.StatusOK, "/"},
		{"localhost:8080", "/", http.StatusOK, "/"},
		{"127.0.0.1", "/health", http.StatusOK, "/health"},
		{"unknown.example", "/", http.StatusNotFound, ""},
		{"broken.example", "/", http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Host = tc.host
		w := serve(h, req)
		assert.Equal(t, tc.status, w.Code, tc.host)
		assert.Equal(t, tc.want, seen, tc.host)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "unknown.example"
	assert.JSONEq(t, `{"status":"error","code":404,"message":"Domínio 'unknown.example' não configurado."}`, serve(h, req).Body.String())
}
