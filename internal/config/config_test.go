// ABOUTME: Tests for environment configuration loading.
// ABOUTME: Covers defaults, overrides, and invalid duration handling.

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"CALWIDGET_PORT", "CALWIDGET_DB_PATH", "CALWIDGET_BASE_URL",
		"CALWIDGET_NOTION_BASE_URL", "CALWIDGET_KEYWORDS_FILE",
		"CALWIDGET_CACHE_TTL", "CALWIDGET_CACHE_SWEEP",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBPath != "./calwidget.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CALWIDGET_PORT", "9001")
	t.Setenv("CALWIDGET_CACHE_TTL", "30s")
	t.Setenv("CALWIDGET_BASE_URL", "https://cal.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9001" || cfg.CacheTTL != 30*time.Second || cfg.BaseURL != "https://cal.example.com" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_BadTTL(t *testing.T) {
	t.Setenv("CALWIDGET_CACHE_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for bad duration")
	}
}
