package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)

	assert.Equal(t, 12*time.Hour, cfg.Auth.AdminSessionTTL)
	assert.Equal(t, 720*time.Hour, cfg.Auth.EnduserSessionTTL)
	assert.Equal(t, "main", cfg.Auth.DefaultTenantCode)
	assert.Equal(t, 5, cfg.Auth.RateLimitMax)
	assert.Equal(t, 900*time.Second, cfg.Auth.RateLimitWindow)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DEFAULT_TENANT_CODE", "acme")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "5m")
	t.Setenv("ADMIN_SESSION_TTL", "1h")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, "acme", cfg.Auth.DefaultTenantCode)
	assert.Equal(t, 10, cfg.Auth.RateLimitMax)
	assert.Equal(t, 5*time.Minute, cfg.Auth.RateLimitWindow)
	assert.Equal(t, time.Hour, cfg.Auth.AdminSessionTTL)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	cfg := Load()
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 900*time.Second, cfg.Auth.RateLimitWindow)
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p",
		Database: "brandgate", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db port=5433 user=u password=p dbname=brandgate sslmode=require",
		c.GetDSN())
}
