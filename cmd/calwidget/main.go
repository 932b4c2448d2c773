// ABOUTME: Entry point for the calendar widget backend.
// ABOUTME: Wires store, cache, and API handlers behind serve and setup-helper commands.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/calwidget/calwidget/internal/api"
	"github.com/calwidget/calwidget/internal/cache"
	"github.com/calwidget/calwidget/internal/config"
	"github.com/calwidget/calwidget/internal/logging"
	"github.com/calwidget/calwidget/internal/notion"
	"github.com/calwidget/calwidget/internal/schema"
	"github.com/calwidget/calwidget/internal/store"
)

var (
	port   string
	dbPath string
	apiKey string
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	rootCmd := &cobra.Command{
		Use:   "calwidget",
		Short: "Calendar widget backend for generic record-store databases",
		Long: `calwidget turns a loosely-typed external database into an embeddable
calendar widget. It infers which columns hold the date, title, schedule
text, and importance flag, validates saved mappings against the live
schema, and extracts normalized events per date range.

Quick Start:
  calwidget databases --key secret_xxx   # list databases the credential sees
  calwidget analyze DB_ID --key secret_xxx
  calwidget serve                        # start the HTTP API`,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the widget API server.

Endpoints:
  POST /api/setup       validate and save a widget configuration
  POST /api/analyze     infer a role mapping from a database schema
  POST /api/databases   list databases for a credential
  POST /api/events      fetch normalized events for a date range
  GET  /api/oembed      embed discovery
  GET  /healthz         health check

Environment Variables:
  CALWIDGET_PORT          Server port (default: 8080)
  CALWIDGET_DB_PATH       SQLite database path
  CALWIDGET_BASE_URL      Public base URL for embed links
  CALWIDGET_KEYWORDS_FILE YAML override for inference keyword tables
  CALWIDGET_CACHE_TTL     Event cache TTL (default: 5m)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", cfg.Port, "Port to listen on")
	serveCmd.Flags().StringVarP(&dbPath, "db", "d", cfg.DBPath, "Database path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze DATABASE_ID",
		Short: "Infer a role mapping from a database schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cfg, args[0])
		},
	}
	analyzeCmd.Flags().StringVarP(&apiKey, "key", "k", os.Getenv("CALWIDGET_API_KEY"), "Record-store credential")

	databasesCmd := &cobra.Command{
		Use:   "databases",
		Short: "List databases visible to a credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatabases(cfg)
		},
	}
	databasesCmd.Flags().StringVarP(&apiKey, "key", "k", os.Getenv("CALWIDGET_API_KEY"), "Record-store credential")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Probe whether a credential can reach the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cfg)
		},
	}
	checkCmd.Flags().StringVarP(&apiKey, "key", "k", os.Getenv("CALWIDGET_API_KEY"), "Record-store credential")

	rootCmd.AddCommand(serveCmd, analyzeCmd, databasesCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// validateAndCleanDBPath rejects paths that would land the database somewhere
// surprising or sensitive.
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))
	if cleanPath == "" || cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}
	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}
	return cleanPath, nil
}

func runServe(cfg *config.Config) error {
	cleanPath, err := validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	s, err := store.New(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	keywords, err := loadKeywords(cfg)
	if err != nil {
		return err
	}

	eventCache := cache.New(cfg.CacheTTL)
	if err := eventCache.StartSweeper(cfg.CacheSweep); err != nil {
		return fmt.Errorf("invalid cache sweep schedule: %w", err)
	}
	defer eventCache.Stop()

	srv := newServer(cfg, s, eventCache, keywords)

	addr := ":" + port
	log.Printf("calwidget server listening on %s", addr)
	log.Printf("Database: %s", cleanPath)
	return http.ListenAndServe(addr, srv)
}

func newServer(cfg *config.Config, s *store.Store, eventCache *cache.Cache, keywords schema.Keywords) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware(s))
	r.Use(api.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	handlers := api.NewHandlers(s, eventCache, keywords)
	if cfg.BaseURL != "" {
		handlers.SetBaseURL(cfg.BaseURL)
	}
	if cfg.NotionBaseURL != "" {
		handlers.SetNotionBaseURL(cfg.NotionBaseURL)
	}
	handlers.RegisterRoutes(r)
	return r
}

func loadKeywords(cfg *config.Config) (schema.Keywords, error) {
	if cfg.KeywordsFile == "" {
		return schema.DefaultKeywords(), nil
	}
	keywords, err := schema.LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		return schema.Keywords{}, err
	}
	log.Printf("Loaded keyword tables from %s", cfg.KeywordsFile)
	return keywords, nil
}

func newClient(cfg *config.Config) (*notion.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("a credential is required: pass --key or set CALWIDGET_API_KEY")
	}
	client := notion.NewClient(apiKey)
	if cfg.NotionBaseURL != "" {
		client.SetBaseURL(cfg.NotionBaseURL)
	}
	return client, nil
}

func runAnalyze(cfg *config.Config, databaseID string) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	keywords, err := loadKeywords(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	catalog, err := client.FetchSchema(ctx, databaseID)
	if err != nil {
		return err
	}
	mapping, err := schema.NewInferencer(keywords).Infer(catalog)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runDatabases(cfg *config.Config) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	databases, err := client.ListDatabases(ctx)
	if err != nil {
		return err
	}
	if len(databases) == 0 {
		fmt.Println("No databases are shared with this credential.")
		return nil
	}
	for _, db := range databases {
		fmt.Printf("%s  %s\n", db.ID, db.Title)
	}
	return nil
}

func runCheck(cfg *config.Config) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.CheckCredential(ctx); err != nil {
		return err
	}
	fmt.Println("Credential OK.")
	return nil
}
