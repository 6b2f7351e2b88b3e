package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session persistence backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port        string
	Env         string
	DBPath      string
	BaseURL     string
	LogLevel    string
	LogFormat   string
	APIVersion  string
	Admin       Admin
	Sessions    Sessions
	Email       Email
	FormLimit   int
	CleanupTick time.Duration

	// TrustProxyHeaders keys per-client limits on CF-Connecting-IP or
	// X-Forwarded-For. Only set it behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// Admin is the single admin identity and the cookie settings used when
// issuing its session.
type Admin struct {
	ID           string
	Username     string
	Password     string
	PasswordHash string
	Email        string
	CookieDomain string
}

type Sessions struct {
	Backend     string
	PostgresURL string
	RedisURL    string
}

type Email struct {
	PostmarkToken string
	FromEmail     string
	NotifyEmail   string
}

// IsProduction reports whether cookies must be marked Secure.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the environment, after applying an optional
// .env file from the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:       getEnv("COURSEHUB_PORT", "8080"),
		Env:        getEnv("COURSEHUB_ENV", "development"),
		DBPath:     getEnv("COURSEHUB_DB_PATH", "coursehub.db"),
		LogLevel:   getEnv("COURSEHUB_LOG_LEVEL", "info"),
		LogFormat:  getEnv("COURSEHUB_LOG_FORMAT", "text"),
		APIVersion: getEnv("COURSEHUB_API_VERSION", "1.0"),
		Admin: Admin{
			ID:           getEnv("COURSEHUB_ADMIN_ID", "admin"),
			Username:     getEnv("COURSEHUB_ADMIN_USERNAME", ""),
			Password:     getEnv("COURSEHUB_ADMIN_PASSWORD", ""),
			PasswordHash: getEnv("COURSEHUB_ADMIN_PASSWORD_HASH", ""),
			Email:        getEnv("COURSEHUB_ADMIN_EMAIL", ""),
			CookieDomain: getEnv("COURSEHUB_COOKIE_DOMAIN", ""),
		},
		Sessions: Sessions{
			Backend:     strings.ToLower(getEnv("COURSEHUB_SESSION_BACKEND", BackendSQLite)),
			PostgresURL: getEnv("COURSEHUB_SESSION_POSTGRES_URL", ""),
			RedisURL:    getEnv("COURSEHUB_SESSION_REDIS_URL", ""),
		},
		Email: Email{
			PostmarkToken: getEnv("COURSEHUB_POSTMARK_TOKEN", ""),
			FromEmail:     getEnv("COURSEHUB_FROM_EMAIL", ""),
			NotifyEmail:   getEnv("COURSEHUB_NOTIFY_EMAIL", ""),
		},
		FormLimit:   getEnvInt("COURSEHUB_FORM_LIMIT_PER_MINUTE", 20),
		CleanupTick: time.Duration(getEnvInt("COURSEHUB_CLEANUP_INTERVAL_MIN", 60)) * time.Minute,

		TrustProxyHeaders: getEnvBool("COURSEHUB_TRUST_PROXY_HEADERS", false),
	}
	cfg.BaseURL = getEnv("COURSEHUB_BASE_URL", "http://localhost:"+cfg.Port)
	if cfg.Email.NotifyEmail == "" {
		cfg.Email.NotifyEmail = cfg.Admin.Email
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Admin.Username == "" {
		return fmt.Errorf("COURSEHUB_ADMIN_USERNAME must not be empty")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("COURSEHUB_ADMIN_PASSWORD or COURSEHUB_ADMIN_PASSWORD_HASH is required")
	}
	switch c.Sessions.Backend {
	case BackendSQLite:
	case BackendPostgres:
		if c.Sessions.PostgresURL == "" {
			return fmt.Errorf("COURSEHUB_SESSION_POSTGRES_URL is required for the postgres session backend")
		}
	case BackendRedis:
		if c.Sessions.RedisURL == "" {
			return fmt.Errorf("COURSEHUB_SESSION_REDIS_URL is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Sessions.Backend)
	}
	if c.FormLimit <= 0 {
		return fmt.Errorf("COURSEHUB_FORM_LIMIT_PER_MINUTE must be > 0")
	}
	if c.CleanupTick <= 0 {
		return fmt.Errorf("COURSEHUB_CLEANUP_INTERVAL_MIN must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}
