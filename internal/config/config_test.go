package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.SubmitLatency)
	assert.Equal(t, 1000, cfg.LiveMaxSessions)
	assert.Equal(t, time.Hour, cfg.PageCacheTTL)
	assert.Empty(t, cfg.SubmitEndpoint)
	assert.False(t, cfg.WatchContent)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SITE_ADDR", "127.0.0.1:9000")
	t.Setenv("SITE_CONTENT_PATH", "/tmp/content.yaml")
	t.Setenv("SITE_WATCH_CONTENT", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SUBMIT_ENDPOINT", "https://hooks.example.com/forms")
	t.Setenv("SUBMIT_TIMEOUT", "3s")
	t.Setenv("LIVE_MAX_SESSIONS", "5")
	t.Setenv("SITE_PAGE_CACHE_TTL", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.True(t, cfg.WatchContent)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "https://hooks.example.com/forms", cfg.SubmitEndpoint)
	assert.Equal(t, 3*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, 5, cfg.LiveMaxSessions)
	assert.Zero(t, cfg.PageCacheTTL)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Addr:          ":8080",
			LogLevel:      "info",
			LogFormat:     "text",
			SubmitTimeout: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad addr", func(c *Config) { c.Addr = "8080" }, "SITE_ADDR"},
		{"watch without path", func(c *Config) { c.WatchContent = true }, "SITE_WATCH_CONTENT"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"relative endpoint", func(c *Config) { c.SubmitEndpoint = "/forms" }, "SUBMIT_ENDPOINT"},
		{"zero timeout", func(c *Config) { c.SubmitTimeout = 0 }, "SUBMIT_TIMEOUT"},
		{"negative sessions", func(c *Config) { c.LiveMaxSessions = -1 }, "LIVE_MAX_SESSIONS"},
		{"negative cache ttl", func(c *Config) { c.PageCacheTTL = -time.Second }, "SITE_PAGE_CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
