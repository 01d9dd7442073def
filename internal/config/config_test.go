package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("API_BASE_URL", "https://api.example/v1/")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "telegram", cfg.APIPlatform)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 6*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.False(t, cfg.IsProduction())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("REFRESH_INTERVAL", "30m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("API_BASE_URL", "https://api.example/")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			TelegramToken:   "t",
			APIBaseURL:      "https://api.example/",
			APITimeout:      time.Second,
			SessionTTL:      time.Hour,
			RefreshInterval: time.Hour,
			Timezone:        "UTC",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"relative api url", func(c *Config) { c.APIBaseURL = "/api" }, false},
		{"bad site url", func(c *Config) { c.SiteURL = "site" }, false},
		{"zero timeout", func(c *Config) { c.APITimeout = 0 }, false},
		{"zero refresh", func(c *Config) { c.RefreshInterval = 0 }, false},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
