package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "Europe/Istanbul", cfg.TimeZone)
	assert.Equal(t, "MESAJ", cfg.FallbackWord)
	assert.Equal(t, 180*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.PlayerIdleTTL)
	assert.False(t, cfg.Production)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("DAILY_TZ", "UTC")
	t.Setenv("PRODUCTION", "true")
	t.Setenv("PLAYER_IDLE_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverBolt, cfg.StoreDriver)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.True(t, cfg.Production)
	assert.Equal(t, 90*time.Minute, cfg.PlayerIdleTTL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("PRODUCTION", "maybe")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
