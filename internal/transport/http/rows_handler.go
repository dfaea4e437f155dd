package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	pprender "pphistory/internal/render"
)

// RowsResponse is the JSON view of the latest build
type RowsResponse struct {
	RunID    string                 `json:"run_id"`
	Stats    pprender.Stats         `json:"stats"`
	Rows     []pprender.RenderedRow `json:"rows"`
	Warnings []pprender.Warning     `json:"warnings"`
}

// RowsHandler serves the rendered rows for tooling and debugging
type RowsHandler struct {
	store  BuildStore
	logger *slog.Logger
}

// NewRowsHandler creates a new rows handler
func NewRowsHandler(store BuildStore, logger *slog.Logger) *RowsHandler {
	return &RowsHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "rows")),
	}
}

// Routes returns the rows routes
func (h *RowsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/warnings", h.Warnings)
	return r
}

// List handles GET /api/rows
func (h *RowsHandler) List(w http.ResponseWriter, r *http.Request) {
	build, ok := h.store.Latest()
	if !ok {
		render.Render(w, r, unavailable(h.store))
		return
	}
	doc := build.Document
	render.JSON(w, r, RowsResponse{
		RunID:    build.RunID,
		Stats:    doc.Stats,
		Rows:     doc.Rows,
		Warnings: doc.Warnings,
	})
}

// Warnings handles GET /api/rows/warnings
func (h *RowsHandler) Warnings(w http.ResponseWriter, r *http.Request) {
	build, ok := h.store.Latest()
	if !ok {
		render.Render(w, r, unavailable(h.store))
		return
	}
	render.JSON(w, r, build.Document.Warnings)
}
