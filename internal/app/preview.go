package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"pphistory/internal/config"
	"pphistory/internal/files"
	"pphistory/internal/infrastructure"
	"pphistory/internal/sheet"
	httptransport "pphistory/internal/transport/http"
	ws "pphistory/internal/websocket"
)

// Preview serves the latest build and rebuilds it when the input changes
type Preview struct {
	cfg       *config.Config
	builder   *Builder
	telemetry *infrastructure.Telemetry
	store     *buildStore
	hub       *ws.Hub
	files     *files.Manager
	limiter   *rate.Limiter
	handler   http.Handler
	logger    *slog.Logger
}

// NewPreview creates the preview server. telemetry may be nil, which
// disables /metrics.
func NewPreview(cfg *config.Config, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Preview {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	p := &Preview{
		cfg:       cfg,
		builder:   NewBuilder(cfg, telemetry, logger).WithAssetRoot(cfg.Preview.SiteDir),
		telemetry: telemetry,
		store:     &buildStore{},
		hub:       ws.NewHub(logger),
		files:     files.NewManager(""),
		limiter:   rate.NewLimiter(rate.Every(cfg.Preview.MinRebuildInterval), 1),
		logger:    infrastructure.WithComponent(logger, "preview"),
	}

	opts := httptransport.RouterOptions{
		Store:   p.store,
		Hub:     p.hub,
		SiteDir: cfg.Preview.SiteDir,
		Logger:  logger,
	}
	if telemetry != nil {
		opts.Gatherer = telemetry.Registry
	}
	p.handler = httptransport.NewRouter(opts)
	return p
}

// Handler returns the HTTP handler of the preview server
func (p *Preview) Handler() http.Handler {
	return p.handler
}

// Run builds once, then serves and watches until ctx is cancelled. A failing
// first build does not stop the server; the page reports it until the sheet
// is fixed.
func (p *Preview) Run(ctx context.Context) error {
	lastMod := p.modTime()
	if err := p.rebuild(ctx); err != nil {
		p.logger.WarnContext(ctx, "Initial build failed, serving until the input is fixed",
			slog.String("error", err.Error()))
	}

	server := &http.Server{
		Addr:              p.cfg.Preview.Addr,
		Handler:           p.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p.hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		p.watch(gctx, lastMod)
		return nil
	})

	g.Go(func() error {
		p.logger.InfoContext(gctx, "Preview server listening",
			slog.String("address", fmt.Sprintf("http://%s", p.cfg.Preview.Addr)),
			slog.String("input", p.cfg.Build.Input),
			slog.String("site_dir", p.cfg.Preview.SiteDir))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("preview server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), p.cfg.Preview.ShutdownTimeout)
		defer cancel()
		p.logger.Info("Shutting down preview server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// watch polls the input modification time and rebuilds after each change
func (p *Preview) watch(ctx context.Context, lastMod time.Time) {
	if strings.HasPrefix(p.cfg.Build.Input, sheet.GoogleScheme) {
		p.logger.InfoContext(ctx, "Remote input is not watched; restart to rebuild",
			slog.String("input", p.cfg.Build.Input))
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(p.cfg.Preview.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lastMod = p.poll(ctx, lastMod)
		}
	}
}

// poll rebuilds when the input changed since lastMod and returns the new
// modification time
func (p *Preview) poll(ctx context.Context, lastMod time.Time) time.Time {
	mod := p.modTime()
	if mod.IsZero() || mod.Equal(lastMod) {
		return lastMod
	}
	// spreadsheet apps write in several steps; throttling coalesces them
	if err := p.limiter.Wait(ctx); err != nil {
		return lastMod
	}
	p.logger.InfoContext(ctx, "Input changed, rebuilding",
		slog.String("input", p.cfg.Build.Input),
		slog.Time("modified", mod))
	p.rebuild(ctx)
	return mod
}

func (p *Preview) modTime() time.Time {
	mod, err := p.files.ModTime(p.cfg.Build.Input)
	if err != nil {
		return time.Time{}
	}
	return mod
}

// rebuild renders the input in memory and notifies connected pages
func (p *Preview) rebuild(ctx context.Context) error {
	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())
	runID := infrastructure.GetRunID(ctx)

	ctx, span := p.telemetry.StartSpan(ctx, "rebuild")
	defer span.End()

	result, err := p.builder.Render(ctx)
	var duration time.Duration
	if result != nil {
		duration = result.Duration
	}
	p.builder.record(ctx, duration, result, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		p.store.fail(err)
		p.hub.BroadcastBuildError(ws.BuildErrorData{RunID: runID, Error: err.Error()})
		p.logger.ErrorContext(ctx, "Rebuild failed", slog.String("error", err.Error()))
		return err
	}

	p.store.succeed(result)
	stats := result.Document.Stats
	p.hub.BroadcastReload(ws.ReloadData{
		RunID:    runID,
		Rows:     stats.ByKind(),
		Warnings: stats.Warnings,
	})
	p.logger.InfoContext(ctx, "Rebuild complete",
		slog.Int("data_rows", stats.Data),
		slog.Int("section_rows", stats.Sections),
		slog.Int("warnings", stats.Warnings),
		slog.Duration("duration", result.Duration))
	return nil
}
