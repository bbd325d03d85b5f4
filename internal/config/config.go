// Package config loads the site's settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds process settings. Command-line flags override these after Load.
type Config struct {
	Addr         string `env:"SITE_ADDR" default:":8080"`
	ContentPath  string `env:"SITE_CONTENT_PATH"`
	WatchContent bool   `env:"SITE_WATCH_CONTENT" default:"false"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// SubmitEndpoint switches form submissions from simulated to HTTP
	SubmitEndpoint string        `env:"SUBMIT_ENDPOINT"`
	SubmitTimeout  time.Duration `env:"SUBMIT_TIMEOUT" default:"10s"`
	SubmitLatency  time.Duration `env:"SUBMIT_LATENCY" default:"1500ms"`

	LiveMaxSessions int `env:"LIVE_MAX_SESSIONS" default:"1000"`

	// PageCacheTTL of zero serves every page fresh
	PageCacheTTL time.Duration `env:"SITE_PAGE_CACHE_TTL" default:"1h"`
}

// Load reads .env (if present) and the environment, then validates
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		errs = append(errs, fmt.Errorf("SITE_ADDR %q: %w", c.Addr, err))
	}
	if c.WatchContent && c.ContentPath == "" {
		errs = append(errs, errors.New("SITE_WATCH_CONTENT requires SITE_CONTENT_PATH"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	if c.SubmitEndpoint != "" {
		u, err := url.Parse(c.SubmitEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("SUBMIT_ENDPOINT %q must be an absolute http(s) URL", c.SubmitEndpoint))
		}
	}
	if c.SubmitTimeout <= 0 {
		errs = append(errs, errors.New("SUBMIT_TIMEOUT must be positive"))
	}
	if c.SubmitLatency < 0 {
		errs = append(errs, errors.New("SUBMIT_LATENCY must not be negative"))
	}
	if c.LiveMaxSessions < 0 {
		errs = append(errs, errors.New("LIVE_MAX_SESSIONS must not be negative"))
	}
	if c.PageCacheTTL < 0 {
		errs = append(errs, errors.New("SITE_PAGE_CACHE_TTL must not be negative"))
	}

	return errors.Join(errs...)
}
