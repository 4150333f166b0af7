package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SMTPConfig holds settings for the outbound email channel.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EvaluatorConfig holds settings for the alert evaluation loop.
type EvaluatorConfig struct {
	Enabled bool
	// Interval between evaluation ticks.
	Interval time.Duration
	// Timeout bounds one complete evaluation cycle.
	Timeout time.Duration
	// FetchConcurrency caps concurrent market snapshot lookups per tick.
	FetchConcurrency int
	// DigestSweep is how often due daily/weekly digests are checked for.
	DigestSweep time.Duration
}

// DispatchConfig holds settings for notification fan-out.
type DispatchConfig struct {
	// Concurrency caps concurrent channel adapter calls.
	Concurrency int
	// MaxAttempts bounds retries of a transient channel failure.
	MaxAttempts int
	// InitialDelay is the first retry backoff; it doubles per attempt.
	InitialDelay time.Duration
	// Timeout bounds a single channel adapter call.
	Timeout time.Duration
}

type Config struct {
	// Server
	Port string
	Env  string // "development", "production"

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// CORS
	AllowedOrigins []string

	// Market data feed
	MarketDataURL     string
	MarketDataAPIKey  string
	MarketDataTimeout time.Duration

	// Alert evaluation
	Evaluator EvaluatorConfig

	// Notification dispatch
	Dispatch DispatchConfig

	// Email channel
	SMTP SMTPConfig

	// Web Push channel (inert until VAPID keys are configured)
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string // mailto:email or URL
}

func Load() *Config {
	env := getEnv("ENV", "development")

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  env,

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/cryptosden?sslmode=disable"),

		// Auth
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		// CORS
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		// Market data feed
		MarketDataURL:     getEnv("MARKET_DATA_URL", "http://localhost:9090"),
		MarketDataAPIKey:  os.Getenv("MARKET_DATA_API_KEY"),
		MarketDataTimeout: getDurationEnv("MARKET_DATA_TIMEOUT", 10*time.Second),

		// Alert evaluation
		Evaluator: EvaluatorConfig{
			Enabled:          getBoolEnv("EVALUATOR_ENABLED", true),
			Interval:         getDurationEnv("EVALUATOR_INTERVAL", 60*time.Second),
			Timeout:          getDurationEnv("EVALUATOR_TIMEOUT", 50*time.Second),
			FetchConcurrency: getIntEnv("EVALUATOR_FETCH_CONCURRENCY", 8),
			DigestSweep:      getDurationEnv("DIGEST_SWEEP_INTERVAL", 5*time.Minute),
		},

		// Notification dispatch
		Dispatch: DispatchConfig{
			Concurrency:  getIntEnv("DISPATCH_CONCURRENCY", 16),
			MaxAttempts:  getIntEnv("DISPATCH_MAX_ATTEMPTS", 3),
			InitialDelay: getDurationEnv("DISPATCH_INITIAL_DELAY", 2*time.Second),
			Timeout:      getDurationEnv("DISPATCH_TIMEOUT", 15*time.Second),
		},

		// Email channel
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getIntEnv("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "alerts@cryptosden.app"),
		},

		// Web Push channel
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:alerts@cryptosden.app"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
