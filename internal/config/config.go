// Package config loads govpulse settings from a YAML file with environment
// overrides. Every field has a working default so the binary runs with no
// config at all (the Tally API allows low-volume unauthenticated use).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/govpulse/govpulse/internal/tally"
)

// Config holds all runtime settings.
type Config struct {
	// APIKey authenticates against the Tally API. Overridden by
	// TALLY_API_KEY.
	APIKey string `yaml:"api_key"`

	// Endpoint is the GraphQL endpoint. Overridden by GOVPULSE_ENDPOINT.
	Endpoint string `yaml:"endpoint"`

	// CacheTTLMinutes is how long an analysis stays fresh.
	CacheTTLMinutes int `yaml:"cache_ttl_minutes"`

	// CachePath is the SQLite file for the analysis cache. Empty keeps the
	// cache in memory.
	CachePath string `yaml:"cache_path"`

	// HTTPTimeoutSeconds bounds each API request.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint:           tally.DefaultEndpoint,
		CacheTTLMinutes:    5,
		HTTPTimeoutSeconds: 15,
	}
}

// Load reads the config file at path, if it exists, and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("TALLY_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GOVPULSE_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = tally.DefaultEndpoint
	}
	if cfg.CacheTTLMinutes <= 0 {
		cfg.CacheTTLMinutes = 5
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		cfg.HTTPTimeoutSeconds = 15
	}
	return cfg, nil
}

// CacheTTL returns the cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// HTTPTimeout returns the per-request timeout as a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
