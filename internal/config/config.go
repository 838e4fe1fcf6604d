package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Storage      StorageConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig selects the key-value backend for client and service state.
type StorageConfig struct {
	Backend           string // memory or redis
	SessionTTLMinutes int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level   string
	Format  string
	Service string
}

// AuthMode selects where identities and credentials live.
type AuthMode string

const (
	AuthModeDemo     AuthMode = "demo"
	AuthModeProvider AuthMode = "provider"
)

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	Mode                   AuthMode
	JWTSecret              string
	AccessTokenTTLMinutes  int
	BcryptCost             int
	DemoOTPCode            string
	DemoPassword           string
	OTPTTLSeconds          int
	OTPMaxAttempts         int
	ResendCooldownSeconds  int
	MinPasswordLength      int
	SimulatedLatencyMillis int
}

// NotificationConfig holds scan and delivery settings.
type NotificationConfig struct {
	WebhookURL          string
	Timezone            string
	InitialDelaySeconds int
	IntervalSeconds     int
	HistoryLimit        int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	mode := AuthMode(getEnv("AUTH_MODE", string(AuthModeDemo)))
	if mode != AuthModeDemo && mode != AuthModeProvider {
		return nil, fmt.Errorf("invalid AUTH_MODE %q", mode)
	}

	tz := getEnv("NOTIFY_TIMEZONE", "UTC")
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_TIMEZONE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "decor-manager"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Storage: StorageConfig{
			Backend:           getEnv("STORAGE_BACKEND", "memory"),
			SessionTTLMinutes: getEnvAsInt("STORAGE_SESSION_TTL_MINUTES", 720),
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: getEnv("APP_NAME", "decor-manager"),
		},
		Auth: AuthConfig{
			Mode:                   mode,
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
			DemoOTPCode:            getEnv("AUTH_DEMO_OTP_CODE", "123456"),
			DemoPassword:           getEnvAllowEmpty("AUTH_DEMO_PASSWORD", "password123"),
			OTPTTLSeconds:          getEnvAsInt("AUTH_OTP_TTL_SECONDS", 300),
			OTPMaxAttempts:         getEnvAsInt("AUTH_OTP_MAX_ATTEMPTS", 3),
			ResendCooldownSeconds:  getEnvAsInt("AUTH_OTP_RESEND_COOLDOWN_SECONDS", 60),
			MinPasswordLength:      getEnvAsInt("AUTH_MIN_PASSWORD_LENGTH", 6),
			SimulatedLatencyMillis: getEnvAsInt("AUTH_SIMULATED_LATENCY_MS", 0),
		},
		Notification: NotificationConfig{
			WebhookURL:          getEnv("NOTIFY_WEBHOOK_URL", ""),
			Timezone:            tz,
			InitialDelaySeconds: getEnvAsInt("NOTIFY_INITIAL_DELAY_SECONDS", 2),
			IntervalSeconds:     getEnvAsInt("NOTIFY_INTERVAL_SECONDS", 300),
			HistoryLimit:        getEnvAsInt("NOTIFY_HISTORY_LIMIT", 100),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL is the lifetime of session-scoped keys.
func (s StorageConfig) SessionTTL() time.Duration {
	if s.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

// OTPTTL returns the challenge lifetime.
func (a AuthConfig) OTPTTL() time.Duration {
	return time.Duration(a.OTPTTLSeconds) * time.Second
}

// ResendCooldown returns the resend countdown length.
func (a AuthConfig) ResendCooldown() time.Duration {
	return time.Duration(a.ResendCooldownSeconds) * time.Second
}

// SimulatedLatency returns the artificial delay applied to login flows.
func (a AuthConfig) SimulatedLatency() time.Duration {
	return time.Duration(a.SimulatedLatencyMillis) * time.Millisecond
}

// Location returns the timezone used for calendar-day comparisons.
func (n NotificationConfig) Location() *time.Location {
	loc, err := time.LoadLocation(n.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// InitialDelay is the wait before the first scan.
func (n NotificationConfig) InitialDelay() time.Duration {
	return time.Duration(n.InitialDelaySeconds) * time.Second
}

// Interval is the period between scans.
func (n NotificationConfig) Interval() time.Duration {
	return time.Duration(n.IntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvAllowEmpty keeps an explicitly empty value.
func getEnvAllowEmpty(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
