package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pphistory/internal/config"
)

// ClientCounter reports connected preview pages
type ClientCounter interface {
	ClientCount() int
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status    string     `json:"status"`
	Version   string     `json:"version"`
	Uptime    string     `json:"uptime"`
	LastRunID string     `json:"last_run_id,omitempty"`
	LastBuild *time.Time `json:"last_build,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Clients   int        `json:"clients"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	store   BuildStore
	clients ClientCounter
	started time.Time
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store BuildStore, clients ClientCounter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		clients: clients,
		started: time.Now(),
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HealthCheck)
	return r
}

// HealthCheck handles GET /api/health. The server is "ok" when the most recent
// build succeeded, "degraded" when it failed, and "starting" before any build.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "starting",
		Version: config.AppVersion,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	}
	if h.clients != nil {
		resp.Clients = h.clients.ClientCount()
	}
	if build, ok := h.store.Latest(); ok {
		resp.Status = "ok"
		resp.LastRunID = build.RunID
		builtAt := build.BuiltAt
		resp.LastBuild = &builtAt
	}
	if err := h.store.LastError(); err != nil {
		resp.Status = "degraded"
		resp.LastError = err.Error()
	}
	render.JSON(w, r, resp)
}
