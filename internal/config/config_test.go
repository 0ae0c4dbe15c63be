package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/govpulse/govpulse/internal/tally"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != tally.DefaultEndpoint {
		t.Errorf("endpoint = %q, want default", cfg.Endpoint)
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("cache ttl = %v, want 5m", cfg.CacheTTL())
	}
	if cfg.HTTPTimeout() != 15*time.Second {
		t.Errorf("http timeout = %v, want 15s", cfg.HTTPTimeout())
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api_key: file-key
endpoint: https://example.test/query
cache_ttl_minutes: 30
cache_path: /tmp/govpulse.db
http_timeout_seconds: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("api key = %q, want file-key", cfg.APIKey)
	}
	if cfg.Endpoint != "https://example.test/query" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.CacheTTL() != 30*time.Minute {
		t.Errorf("cache ttl = %v, want 30m", cfg.CacheTTL())
	}
	if cfg.CachePath != "/tmp/govpulse.db" {
		t.Errorf("cache path = %q", cfg.CachePath)
	}
	if cfg.HTTPTimeout() != 5*time.Second {
		t.Errorf("http timeout = %v, want 5s", cfg.HTTPTimeout())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_key: file-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TALLY_API_KEY", "env-key")
	t.Setenv("GOVPULSE_ENDPOINT", "https://env.test/query")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("api key = %q, env must win over file", cfg.APIKey)
	}
	if cfg.Endpoint != "https://env.test/query" {
		t.Errorf("endpoint = %q, env must win", cfg.Endpoint)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_key: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestNonPositiveValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cache_ttl_minutes: -1\nhttp_timeout_seconds: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheTTL() != 5*time.Minute || cfg.HTTPTimeout() != 15*time.Second {
		t.Errorf("non-positive values must fall back to defaults, got ttl=%v timeout=%v",
			cfg.CacheTTL(), cfg.HTTPTimeout())
	}
}
