// ABOUTME: Environment-backed configuration for the widget backend.
// ABOUTME: Loads .env when present and falls back to sensible defaults.

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// DBPath is the sqlite database file.
	DBPath string
	// BaseURL is the public URL embed links are built against. When empty,
	// handlers derive it from the incoming request.
	BaseURL string
	// NotionBaseURL overrides the record-store API root. Empty means the
	// real API; tests point it at a local server.
	NotionBaseURL string
	// KeywordsFile optionally overrides the built-in inference keyword tables.
	KeywordsFile string
	// CacheTTL is how long extracted event lists stay servable from cache.
	CacheTTL time.Duration
	// CacheSweep is the cron schedule for evicting expired cache entries.
	CacheSweep string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("CALWIDGET_PORT", "8080"),
		DBPath:        getEnv("CALWIDGET_DB_PATH", "./calwidget.db"),
		BaseURL:       os.Getenv("CALWIDGET_BASE_URL"),
		NotionBaseURL: os.Getenv("CALWIDGET_NOTION_BASE_URL"),
		KeywordsFile:  os.Getenv("CALWIDGET_KEYWORDS_FILE"),
		CacheTTL:      5 * time.Minute,
		CacheSweep:    getEnv("CALWIDGET_CACHE_SWEEP", "*/5 * * * *"),
	}

	if raw := os.Getenv("CALWIDGET_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CALWIDGET_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = ttl
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
