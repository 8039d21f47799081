package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	Environment string
	Port        string
	LogLevel    string
	LogFormat   string

	PostgresURL   string
	DBAutoMigrate bool

	JWTSecret string
	JWTTTL    time.Duration

	AppDomain   string
	CNAMETarget string
	FrontendURL string

	RedisURL           string
	RateLimitPerMinute int

	SMTP    SMTPConfig
	Discord DiscordConfig
	Stripe  StripeConfig
	Storage StorageConfig

	AnalyticsQueueSize int
	AnalyticsWorkers   int
	SweepSchedule      string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	RequireTLS bool
}

type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PremiumPriceID string
}

type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := Config{
		AppName:     getenv("APP_NAME", "linkbio"),
		Environment: getenv("ENVIRONMENT", "development"),
		Port:        getenv("PORT", "8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "json"),

		PostgresURL:   getenv("POSTGRES_URL", ""),
		DBAutoMigrate: getenvBool("DB_AUTO_MIGRATE", true),

		JWTSecret: getenv("JWT_SECRET", ""),
		JWTTTL:    time.Duration(getenvInt("JWT_TTL_HOURS", 168)) * time.Hour,

		AppDomain:   strings.ToLower(getenv("APP_DOMAIN", "localhost")),
		CNAMETarget: strings.ToLower(getenv("CNAME_TARGET", "cname.linkbio.app")),
		FrontendURL: strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:3000"), "/"),

		RedisURL:           getenv("REDIS_URL", ""),
		RateLimitPerMinute: getenvInt("RATE_LIMIT_PER_MINUTE", 120),

		SMTP: SMTPConfig{
			Host:       getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:       getenvInt("SMTP_PORT", 587),
			Username:   getenv("SMTP_USERNAME", ""),
			Password:   getenv("SMTP_PASSWORD", ""),
			From:       getenv("SMTP_FROM", ""),
			FromName:   getenv("SMTP_FROM_NAME", "Linkbio"),
			UseSSL:     getenvBool("SMTP_USE_SSL", false),
			RequireTLS: getenvBool("SMTP_REQUIRE_TLS", true),
		},
		Discord: DiscordConfig{
			ClientID:     getenv("DISCORD_CLIENT_ID", ""),
			ClientSecret: getenv("DISCORD_CLIENT_SECRET", ""),
			RedirectURL:  getenv("DISCORD_REDIRECT_URL", ""),
		},
		Stripe: StripeConfig{
			SecretKey:      getenv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getenv("STRIPE_WEBHOOK_SECRET", ""),
			PremiumPriceID: getenv("STRIPE_PREMIUM_PRICE_ID", ""),
		},
		Storage: StorageConfig{
			Endpoint:        getenv("STORAGE_ENDPOINT", ""),
			Region:          getenv("STORAGE_REGION", "auto"),
			Bucket:          getenv("STORAGE_BUCKET", ""),
			AccessKeyID:     getenv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getenv("STORAGE_SECRET_ACCESS_KEY", ""),
			PublicURL:       strings.TrimRight(getenv("STORAGE_PUBLIC_URL", ""), "/"),
		},

		AnalyticsQueueSize: getenvInt("ANALYTICS_QUEUE_SIZE", 1024),
		AnalyticsWorkers:   getenvInt("ANALYTICS_WORKERS", 2),
		SweepSchedule:      getenv("SWEEP_SCHEDULE", "@every 1m"),
	}

	return cfg
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
