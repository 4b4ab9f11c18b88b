package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BASE_URL", "https://sho.rt/")
	t.Setenv("DATABASE_URL", "memory")
	t.Setenv("PORT", "")
	t.Setenv("REAPER_INTERVAL", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://sho.rt", cfg.BaseURL)
	assert.Equal(t, MemoryDatabase, cfg.DatabaseURL)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Zero(t, cfg.ReaperInterval)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BASE_URL", "http://localhost:8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/links")
	t.Setenv("PORT", "8080")
	t.Setenv("REAPER_INTERVAL", "5m")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.ReaperInterval)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("BASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BASE_URL is required")
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestValidate_BadBaseURL(t *testing.T) {
	cfg := &Config{BaseURL: "sho.rt", DatabaseURL: "memory", Port: 3000}
	assert.Error(t, cfg.Validate())

	cfg.BaseURL = "ftp://sho.rt"
	assert.Error(t, cfg.Validate())

	cfg.BaseURL = "https://sho.rt"
	assert.NoError(t, cfg.Validate())
}
