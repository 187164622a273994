package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("expected max_retries 3, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.InitialDelayMs != 1000 {
		t.Errorf("expected initial_delay_ms 1000, got %d", cfg.Retry.InitialDelayMs)
	}
	if cfg.Retry.MaxDelayMs != 30000 {
		t.Errorf("expected max_delay_ms 30000, got %d", cfg.Retry.MaxDelayMs)
	}
	if cfg.Retry.BackoffMultiplier != 2.0 {
		t.Errorf("expected backoff_multiplier 2.0, got %v", cfg.Retry.BackoffMultiplier)
	}
	if cfg.Sync.IntervalHours != 24 {
		t.Errorf("expected default interval 24h, got %d", cfg.Sync.IntervalHours)
	}
	if cfg.Sync.AutoSyncEnabled {
		t.Error("expected auto sync disabled by default")
	}
}

func TestLoadWithoutFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("expected default retry config, got %+v", cfg.Retry)
	}
	if cfg.Store.Path == "" {
		t.Error("expected a default store path to be filled in")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := DefaultConfig()
	cfg.Store.Path = filepath.Join(dir, "content.db")
	cfg.Retry.MaxRetries = 5
	cfg.Sync.IntervalHours = 12
	cfg.Sync.AutoSyncEnabled = true
	cfg.Logging.Level = "debug"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Store.Path != cfg.Store.Path {
		t.Errorf("store path: got %q, want %q", loaded.Store.Path, cfg.Store.Path)
	}
	if loaded.Retry.MaxRetries != 5 {
		t.Errorf("max_retries: got %d, want 5", loaded.Retry.MaxRetries)
	}
	if loaded.Sync.IntervalHours != 12 {
		t.Errorf("interval_hours: got %d, want 12", loaded.Sync.IntervalHours)
	}
	if !loaded.Sync.AutoSyncEnabled {
		t.Error("expected auto_sync_enabled to round-trip true")
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("logging.level: got %q, want debug", loaded.Logging.Level)
	}
}

func TestToTOMLIncludesAllSections(t *testing.T) {
	cfg := DefaultConfig()
	toml := cfg.ToTOML()

	for _, section := range []string{"[store]", "[retry]", "[sync]", "[logging]"} {
		if !strings.Contains(toml, section) {
			t.Errorf("expected %s section in TOML output", section)
		}
	}
}
