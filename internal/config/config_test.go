package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"studyhub/backend/internal/config"
)

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
port = "9090"
token_ttl_hours = 24
ntfy_endpoint = "https://ntfy.sh/studyhub-test"
cors_origins = ["https://study.example.com"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.NtfyEndpoint != "https://ntfy.sh/studyhub-test" {
		t.Fatalf("unexpected ntfy endpoint: %s", cfg.NtfyEndpoint)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://study.example.com" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	// Untouched fields keep their defaults.
	if cfg.MigrationsDir != "./migrations" {
		t.Fatalf("expected default migrations dir, got %s", cfg.MigrationsDir)
	}
}

func TestLoadFileMissingFile(t *testing.T) {
	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalizeClampsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("token_ttl_hours = -1\nrate_limit_per_minute = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TokenTTL != 72*time.Hour {
		t.Fatalf("expected fallback ttl, got %v", cfg.TokenTTL)
	}
	if cfg.RateLimitPerMinute != 240 {
		t.Fatalf("expected fallback rate limit, got %d", cfg.RateLimitPerMinute)
	}
}
