// Package config provides application configuration from the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultAPIBase matches the dev backend's default bind address.
const DefaultAPIBase = "http://localhost:5050"

// Config holds all application configuration.
type Config struct {
	// APIBase is the root URL of the question service. Question image
	// paths are resolved against it for display.
	APIBase string

	// DBPath overrides the local database location. Empty means the
	// default XDG path.
	DBPath string

	// HTTPTimeout bounds each backend round-trip.
	HTTPTimeout time.Duration

	// DebugLog, when set, is a file path that receives diagnostic logs.
	// The TUI owns the terminal, so logs never go to stdout.
	DebugLog string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		APIBase:     getEnv("REGCHAT_API_BASE", DefaultAPIBase),
		DBPath:      getEnv("REGCHAT_DB", ""),
		HTTPTimeout: getEnvDuration("REGCHAT_HTTP_TIMEOUT", 30*time.Second),
		DebugLog:    getEnv("REGCHAT_DEBUG_LOG", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIBase == "" {
		return fmt.Errorf("REGCHAT_API_BASE cannot be empty")
	}
	u, err := url.Parse(c.APIBase)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("REGCHAT_API_BASE must be an absolute URL, got %q", c.APIBase)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("REGCHAT_HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
