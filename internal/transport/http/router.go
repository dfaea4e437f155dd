package http

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pphistory/internal/middleware"
	ws "pphistory/internal/websocket"
)

// RouterOptions are the dependencies of the preview router
type RouterOptions struct {
	Store BuildStore
	Hub   *ws.Hub
	// Gatherer backs /metrics; nil disables the route
	Gatherer prometheus.Gatherer
	// SiteDir holds the static assets the page references
	SiteDir string
	Logger  *slog.Logger
}

// NewRouter wires the preview routes
func NewRouter(opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Order matters: RequestID first so every later middleware can log it
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)

	page := NewPreviewHandler(opts.Store, logger)
	r.With(middleware.NoCache).Get("/", page.Page)
	r.With(middleware.NoCache).Get("/index.html", page.Page)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(chimiddleware.Timeout(30 * time.Second))

		var clients ClientCounter
		if opts.Hub != nil {
			clients = opts.Hub
		}
		r.Mount("/health", NewHealthHandler(opts.Store, clients, logger).Routes())
		r.Mount("/rows", NewRowsHandler(opts.Store, logger).Routes())
	})

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	if opts.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			ws.ServeWS(opts.Hub, w, req)
		})
	}

	if opts.SiteDir != "" {
		r.With(middleware.NoCache).Handle("/*", staticFiles(opts.SiteDir))
	}

	return r
}

// privateExtensions are never served from the site directory: configuration
// may hold API keys and the spreadsheets are the unpublished source data
var privateExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
	".env":  true,
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
	".log":  true,
	".prom": true,
}

// staticFiles serves dir without dotfiles and private file types
func staticFiles(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPrivatePath(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

func isPrivatePath(urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	for _, part := range strings.Split(clean, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return privateExtensions[strings.ToLower(path.Ext(clean))]
}
