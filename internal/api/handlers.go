// ABOUTME: HTTP handlers for the calendar widget API.
// ABOUTME: Setup, analysis, database listing, event fetching, and oembed endpoints.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calwidget/calwidget/internal/cache"
	"github.com/calwidget/calwidget/internal/event"
	"github.com/calwidget/calwidget/internal/notion"
	"github.com/calwidget/calwidget/internal/query"
	"github.com/calwidget/calwidget/internal/schema"
	"github.com/calwidget/calwidget/internal/settings"
	"github.com/calwidget/calwidget/internal/store"
)

type Handlers struct {
	store    *store.Store
	cache    *cache.Cache
	keywords schema.Keywords

	// baseURL, when set, overrides request-derived embed URL roots.
	baseURL string
	// notionBaseURL overrides the record-store API root (tests).
	notionBaseURL string
}

func NewHandlers(s *store.Store, c *cache.Cache, kw schema.Keywords) *Handlers {
	return &Handlers{store: s, cache: c, keywords: kw}
}

// SetBaseURL fixes the public URL embed links are built against.
func (h *Handlers) SetBaseURL(u string) {
	h.baseURL = u
}

// SetNotionBaseURL points record-store clients at a different API root.
func (h *Handlers) SetNotionBaseURL(u string) {
	h.notionBaseURL = u
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/setup", h.setup)
		r.Post("/events", h.events)
		r.Post("/analyze", h.analyze)
		r.Post("/databases", h.databases)
		r.Get("/oembed", h.oembed)
		r.Route("/widgets/{widgetId}", func(r chi.Router) {
			r.Get("/", h.getWidget)
			r.Get("/events", h.widgetEvents)
		})
	})
}

func (h *Handlers) client(credential string) *notion.Client {
	c := notion.NewClient(credential)
	if h.notionBaseURL != "" {
		c.SetBaseURL(h.notionBaseURL)
	}
	return c
}

// embedBase returns the URL root embed links use: the configured base URL,
// else one derived from the incoming request.
func (h *Handlers) embedBase(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
	}
	return proto + "://" + r.Host
}

type setupRequest struct {
	APIKey             string          `json:"apiKey"`
	DatabaseID         string          `json:"databaseId"`
	DateProperty       string          `json:"dateProperty"`
	TitleProperty      string          `json:"titleProperty"`
	ScheduleProperties []string        `json:"scheduleProperties"`
	ImportanceProperty string          `json:"importantProperty"`
	Theme              *settings.Theme `json:"theme"`
}

// setup validates a full widget configuration against the live record store,
// persists it, and returns the settings token plus embed URL.
func (h *Handlers) setup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidConfig, "request body is not valid JSON")
		return
	}

	theme := settings.DefaultTheme()
	if req.Theme != nil {
		theme = *req.Theme
	}
	cfg := settings.Settings{
		Credential: req.APIKey,
		DatabaseID: settings.Sanitize(req.DatabaseID),
		Mapping: schema.RoleMapping{
			DateProperty:       settings.Sanitize(req.DateProperty),
			TitleProperty:      settings.Sanitize(req.TitleProperty),
			ScheduleProperties: sanitizeAll(req.ScheduleProperties),
			ImportanceProperty: settings.Sanitize(req.ImportanceProperty),
		},
		Theme: theme,
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidConfig, err.Error())
		return
	}
	if !settings.ValidDatabaseID(cfg.DatabaseID) {
		writeError(w, http.StatusBadRequest, CodeInvalidDatabaseID, "invalid database id format")
		return
	}

	client := h.client(cfg.Credential)
	if err := client.CheckCredential(r.Context()); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, CodeConnectionFailed,
			"failed to connect to the record store", err.Error())
		return
	}

	catalog, err := client.FetchSchema(r.Context(), cfg.DatabaseID)
	if err != nil {
		writeErrorDetails(w, http.StatusBadRequest, CodeInvalidSchema,
			"cannot analyze database schema", err.Error())
		return
	}
	report, err := schema.Validate(cfg.Mapping, catalog)
	if err != nil {
		writeErrorDetails(w, http.StatusBadRequest, CodeInvalidSchema,
			"database schema validation failed", err.Error())
		return
	}
	for _, warning := range report.Warnings {
		log.Printf("setup: %s", warning)
	}

	token, err := settings.EncodeToken(cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to encode settings")
		return
	}

	widgetID := uuid.NewString()
	if err := h.store.CreateWidget(&store.Widget{ID: widgetID, ConfigToken: token}); err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to save widget")
		return
	}

	writeData(w, map[string]any{
		"widgetId": widgetID,
		"configId": token,
		"embedUrl": h.embedBase(r) + "/u/" + token,
	})
}

func sanitizeAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = settings.Sanitize(v)
	}
	return out
}

type eventsConfig struct {
	Token         string   `json:"token"`
	DBID          string   `json:"dbId"`
	DateProp      string   `json:"dateProp"`
	TitleProp     string   `json:"titleProp"`
	ScheduleProps []string `json:"scheduleProps"`
	ImportantProp string   `json:"importantProp"`
}

type eventsRequest struct {
	Config    *eventsConfig `json:"config"`
	ConfigID  string        `json:"configId"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
}

// events fetches and extracts the calendar events for a date range. The
// caller supplies either the flat config object or the encoded settings token.
func (h *Handlers) events(w http.ResponseWriter, r *http.Request) {
	var req eventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeMissingParams, "request body is not valid JSON")
		return
	}
	if req.StartDate == "" || req.EndDate == "" || (req.Config == nil && req.ConfigID == "") {
		writeError(w, http.StatusBadRequest, CodeMissingParams,
			"config (or configId), startDate, and endDate are required")
		return
	}

	var cfg settings.Settings
	if req.Config != nil {
		cfg = settings.Settings{
			Credential: req.Config.Token,
			DatabaseID: req.Config.DBID,
			Mapping: schema.RoleMapping{
				DateProperty:       req.Config.DateProp,
				TitleProperty:      req.Config.TitleProp,
				ScheduleProperties: req.Config.ScheduleProps,
				ImportanceProperty: req.Config.ImportantProp,
			},
			Theme: settings.DefaultTheme(),
		}
	} else {
		var err error
		cfg, err = settings.DecodeToken(req.ConfigID)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidConfig, "invalid settings token")
			return
		}
	}

	h.serveEvents(w, r, cfg, req.StartDate, req.EndDate)
}

// serveEvents runs the fetch-extract cycle shared by the events endpoints.
func (h *Handlers) serveEvents(w http.ResponseWriter, r *http.Request, cfg settings.Settings, start, end string) {
	filter, err := query.Build(cfg.Mapping.DateProperty, start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidDate, err.Error())
		return
	}

	token, err := settings.EncodeToken(cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to encode settings")
		return
	}
	key := cache.Key(token, start, end)
	if events, ok := h.cache.Get(key); ok {
		writeData(w, events)
		return
	}

	records, err := h.client(cfg.Credential).QueryRecords(r.Context(), cfg.DatabaseID, filter)
	if err != nil {
		var remote *notion.RemoteError
		if errors.As(err, &remote) && remote.Status == http.StatusNotFound {
			writeErrorDetails(w, http.StatusBadRequest, CodeRemoteError,
				"database not found", remote.Message)
			return
		}
		writeErrorDetails(w, http.StatusInternalServerError, CodeRemoteError,
			"could not load events", err.Error())
		return
	}

	events := event.Extract(records, cfg.Mapping)
	if skipped := len(records) - len(events); skipped > 0 {
		log.Printf("events: skipped %d unparseable record(s) of %d", skipped, len(records))
	}
	h.cache.Put(key, events)
	writeData(w, events)
}

type analyzeRequest struct {
	APIKey     string `json:"apiKey"`
	DatabaseID string `json:"databaseId"`
}

// analyze infers a role mapping from a database schema.
func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeMissingParams, "request body is not valid JSON")
		return
	}
	if req.APIKey == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidAPIKey, "API key is required")
		return
	}
	if req.DatabaseID == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidDatabaseID, "database ID is required")
		return
	}

	catalog, err := h.client(req.APIKey).FetchSchema(r.Context(), req.DatabaseID)
	if err != nil {
		writeErrorDetails(w, http.StatusBadRequest, CodeAnalysisFailed,
			"cannot analyze database schema", err.Error())
		return
	}

	mapping, err := schema.NewInferencer(h.keywords).Infer(catalog)
	if err != nil {
		var infErr *schema.InferenceError
		if errors.As(err, &infErr) {
			writeErrorDetails(w, http.StatusBadRequest, CodeAnalysisFailed,
				fmt.Sprintf("add a %s property to the database and try again", infErr.Role),
				infErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, CodeInternalError, "analysis failed")
		return
	}
	writeData(w, mapping)
}

type databasesRequest struct {
	APIKey string `json:"apiKey"`
}

// databases lists the collections a credential can read. Setup-flow only.
func (h *Handlers) databases(w http.ResponseWriter, r *http.Request) {
	var req databasesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeMissingParams, "request body is not valid JSON")
		return
	}
	if req.APIKey == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidAPIKey, "API key is required")
		return
	}

	databases, err := h.client(req.APIKey).ListDatabases(r.Context())
	if err != nil {
		writeErrorDetails(w, http.StatusBadRequest, CodeFetchFailed,
			"failed to fetch databases", err.Error())
		return
	}
	writeData(w, databases)
}

// widgetView is the getWidget response. Credentials never leave the server.
type widgetView struct {
	ID         string             `json:"id"`
	DatabaseID string             `json:"databaseId"`
	Mapping    schema.RoleMapping `json:"mapping"`
	Theme      settings.Theme     `json:"theme"`
	EmbedURL   string             `json:"embedUrl"`
	CreatedAt  string             `json:"createdAt"`
	UpdatedAt  string             `json:"updatedAt"`
}

func (h *Handlers) getWidget(w http.ResponseWriter, r *http.Request) {
	widget, cfg, ok := h.loadWidget(w, r)
	if !ok {
		return
	}
	writeData(w, widgetView{
		ID:         widget.ID,
		DatabaseID: cfg.DatabaseID,
		Mapping:    cfg.Mapping,
		Theme:      cfg.Theme,
		EmbedURL:   h.embedBase(r) + "/u/" + widget.ConfigToken,
		CreatedAt:  widget.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:  widget.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// widgetEvents serves events for a stored widget by id.
func (h *Handlers) widgetEvents(w http.ResponseWriter, r *http.Request) {
	_, cfg, ok := h.loadWidget(w, r)
	if !ok {
		return
	}
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, CodeMissingParams, "start and end are required")
		return
	}
	h.serveEvents(w, r, cfg, start, end)
}

func (h *Handlers) loadWidget(w http.ResponseWriter, r *http.Request) (*store.Widget, settings.Settings, bool) {
	widgetID := chi.URLParam(r, "widgetId")
	widget, err := h.store.GetWidget(widgetID)
	if err != nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "widget not found")
		return nil, settings.Settings{}, false
	}
	cfg, err := settings.DecodeToken(widget.ConfigToken)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternalError, "stored settings are corrupt")
		return nil, settings.Settings{}, false
	}
	return widget, cfg, true
}

// oembed answers embed discovery requests with a rich iframe payload.
func (h *Handlers) oembed(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, CodeMissingParams, "url parameter is required")
		return
	}

	base := h.embedBase(r)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"type":          "rich",
		"version":       "1.0",
		"title":         "Calendar Widget",
		"provider_name": "Calendar Widget",
		"provider_url":  base,
		"html": fmt.Sprintf(
			`<iframe src="%s" width="100%%" height="450" frameborder="0" style="border-radius: 8px;"></iframe>`,
			target),
		"width":  800,
		"height": 450,
	})
}
