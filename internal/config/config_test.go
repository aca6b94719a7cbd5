package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"greenhouse_dashboard/internal/models"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port: want 8080, got %q", cfg.Port)
	}
	if cfg.Upstream.BaseURL != "http://127.0.0.1:8888" {
		t.Errorf("BaseURL: got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Lookup.StatDays != 7 || cfg.Lookup.LogDays != 7 {
		t.Errorf("lookup windows: got %d/%d, want 7/7", cfg.Lookup.StatDays, cfg.Lookup.LogDays)
	}
	if cfg.Lookup.LogLevel != models.LevelInfo {
		t.Errorf("log level: got %v, want info", cfg.Lookup.LogLevel)
	}
	if cfg.Poll.Interval != 2*time.Second || !cfg.Poll.Enabled {
		t.Errorf("poll: got enabled=%v interval=%v", cfg.Poll.Enabled, cfg.Poll.Interval)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("token ttl: got %v", cfg.Auth.TokenTTL)
	}
}

func TestLoad_FileOverridesAndValidation(t *testing.T) {
	dir := t.TempDir()
	yml := []byte(`
port: "9090"
upstream:
  base_url: "http://greenhouse.local:9000/"
lookup:
  stat_days: 3
  log_level: warn
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port: got %q", cfg.Port)
	}
	// trailing slash is trimmed so path joins stay clean
	if cfg.Upstream.BaseURL != "http://greenhouse.local:9000" {
		t.Errorf("BaseURL: got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Lookup.StatDays != 3 {
		t.Errorf("StatDays: got %d", cfg.Lookup.StatDays)
	}
	if cfg.Lookup.LogLevel != models.LevelWarn {
		t.Errorf("LogLevel: got %v", cfg.Lookup.LogLevel)
	}
}

func TestLoad_RejectsBadLogLevel(t *testing.T) {
	dir := t.TempDir()
	yml := []byte("lookup:\n  log_level: shout\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid lookup.log_level")
	}
}
