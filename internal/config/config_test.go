package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("NOTIFICATION_RETENTION_DAYS", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.NotificationRetention)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("NOTIFICATION_RETENTION_DAYS", "0")
	t.Setenv("AUTH_RATE_LIMIT", "not-a-number")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Zero(t, cfg.NotificationRetention)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.True(t, cfg.LogJSON)
}
