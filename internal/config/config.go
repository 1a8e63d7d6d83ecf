package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config brandgate (HTTP API) configuration, loaded from environment.
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Auth AuthConfig
}

// AuthConfig groups the pipeline knobs: session lifetimes, the legacy
// fallback tenant, and the login rate-limit window.
type AuthConfig struct {
	AdminSessionTTL   time.Duration
	EnduserSessionTTL time.Duration
	VerifyTokenTTL    time.Duration
	DefaultTenantCode string // legacy resolution fallback
	RateLimitMax      int
	RateLimitWindow   time.Duration
}

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds a lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if DB is unavailable, brandgate falls back
	// to in-memory repositories instead of refusing to start.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "brandgate")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.AdminSessionTTL = parseDuration(getEnv("ADMIN_SESSION_TTL", "12h"), 12*time.Hour)
	cfg.Auth.EnduserSessionTTL = parseDuration(getEnv("ENDUSER_SESSION_TTL", "720h"), 720*time.Hour)
	cfg.Auth.VerifyTokenTTL = parseDuration(getEnv("VERIFY_TOKEN_TTL", "24h"), 24*time.Hour)
	// Fallback tenant for the legacy resolution chain (already-deployed frontends).
	cfg.Auth.DefaultTenantCode = getEnv("DEFAULT_TENANT_CODE", "main")
	cfg.Auth.RateLimitMax = parseInt(getEnv("RATE_LIMIT_MAX", "5"), 5)
	cfg.Auth.RateLimitWindow = parseDuration(getEnv("RATE_LIMIT_WINDOW", "900s"), 900*time.Second)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
