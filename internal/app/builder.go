package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"pphistory/internal/config"
	"pphistory/internal/errors"
	"pphistory/internal/exporter"
	"pphistory/internal/files"
	"pphistory/internal/infrastructure"
	"pphistory/internal/render"
	"pphistory/internal/sheet"
	"pphistory/internal/snapshot"
	"pphistory/internal/validation"
	"pphistory/pkg/contracts/domain"
)

// Result describes one completed build
type Result struct {
	RunID    string
	Document *render.Document
	Duration time.Duration
	BuiltAt  time.Time
}

// Builder runs the load, render and write pipeline
type Builder struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
	validator *validation.FileValidator
	exporter  *exporter.DocumentExporter
	files     *files.Manager
	// assetRoot is where replay paths are checked; empty means the output directory
	assetRoot string

	// now is replaced in tests
	now func() time.Time
	// capture is replaced in tests to avoid starting a browser
	capture func(ctx context.Context, pagePath string, opts snapshot.Options, logger *slog.Logger) ([]byte, error)
}

// NewBuilder creates a builder. telemetry may be nil.
func NewBuilder(cfg *config.Config, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "builder")
	fm := files.NewManager("")
	return &Builder{
		cfg:       cfg,
		logger:    logger,
		telemetry: telemetry,
		validator: validation.NewFileValidator(logger),
		exporter:  exporter.NewDocumentExporter(fm),
		files:     fm,
		now:       time.Now,
		capture:   snapshot.Capture,
	}
}

// Build renders the configured input and writes every configured output
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := b.telemetry.StartSpan(ctx, "build",
		attribute.String("input", b.cfg.Build.Input),
		attribute.String("output", b.cfg.Build.Output))
	defer span.End()

	start := b.now()
	result, err := b.build(ctx)
	if result != nil {
		result.Duration = b.now().Sub(start)
	}
	b.record(ctx, b.now().Sub(start), result, err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		b.logger.ErrorContext(ctx, "Build failed", slog.String("error", err.Error()))
		return nil, err
	}

	stats := result.Document.Stats
	b.logger.InfoContext(ctx, "Build complete",
		slog.String("output", b.cfg.Build.Output),
		slog.Int("data_rows", stats.Data),
		slog.Int("section_rows", stats.Sections),
		slog.Int("skipped_rows", stats.Skipped),
		slog.Int("warnings", stats.Warnings),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (b *Builder) build(ctx context.Context) (*Result, error) {
	if err := b.validator.ValidateOutputFile(b.cfg.Build.Output); err != nil {
		return nil, errors.NewOutputError("validate", "output is not writable", err).
			WithContext("path", b.cfg.Build.Output)
	}

	result, err := b.Render(ctx)
	if err != nil {
		return nil, err
	}

	if err := b.writeOutputs(ctx, result.Document); err != nil {
		return nil, err
	}
	return result, nil
}

// Render loads the input and renders the document without writing anything.
// Replay files are checked under the asset root.
func (b *Builder) Render(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	start := b.now()

	if err := b.validator.ValidateInputFile(b.cfg.Build.Input); err != nil {
		return nil, errors.NewInputError("validate", "input is not usable", err).
			WithContext("path", b.cfg.Build.Input)
	}

	records, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := b.render(ctx, records)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:    infrastructure.GetRunID(ctx),
		Document: doc,
		BuiltAt:  start,
		Duration: b.now().Sub(start),
	}, nil
}

func (b *Builder) load(ctx context.Context) ([]domain.Record, error) {
	ctx, span := b.telemetry.StartSpan(ctx, "load", attribute.String("input", b.cfg.Build.Input))
	defer span.End()

	records, err := sheet.Load(ctx, b.cfg.Build.Input, sheet.Options{
		Sheet:                 b.cfg.Build.Sheet,
		GoogleAPIKey:          b.cfg.Build.GoogleAPIKey,
		GoogleCredentialsFile: b.cfg.Build.GoogleCredentialsFile,
	})
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, errors.NewInputError("load", "failed to read input", err).
			WithContext("path", b.cfg.Build.Input)
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	b.logger.DebugContext(ctx, "Input loaded",
		slog.String("input", b.cfg.Build.Input),
		slog.Int("records", len(records)))
	return records, nil
}

// WithAssetRoot checks replay files under dir instead of the output directory
func (b *Builder) WithAssetRoot(dir string) *Builder {
	b.assetRoot = dir
	return b
}

func (b *Builder) assetDir() string {
	if b.assetRoot != "" {
		return b.assetRoot
	}
	return filepath.Dir(b.cfg.Build.Output)
}

func (b *Builder) render(ctx context.Context, records []domain.Record) (*render.Document, error) {
	ctx, span := b.telemetry.StartSpan(ctx, "render", attribute.Int("records", len(records)))
	defer span.End()

	assets := files.NewManager(b.assetDir())
	span.SetAttributes(attribute.String("asset_root", assets.BaseDir()))

	renderer, err := render.NewRenderer(render.Options{
		Site:    b.cfg.Site,
		Assets:  b.cfg.Assets,
		Today:   b.cfg.ReferenceDate(b.now()),
		Checker: assets,
	})
	if err != nil {
		return nil, errors.NewRenderError("failed to prepare renderer", err)
	}

	doc, err := renderer.Render(records)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, errors.NewRenderError("failed to render document", err)
	}

	for _, w := range doc.Warnings {
		b.logger.WarnContext(ctx, w.Message,
			slog.Int("row", w.Row),
			slog.String("column", w.Column),
			slog.String("path", w.Path))
	}
	span.SetAttributes(
		attribute.Int("rows.data", doc.Stats.Data),
		attribute.Int("rows.section", doc.Stats.Sections),
		attribute.Int("warnings", doc.Stats.Warnings))
	return doc, nil
}

func (b *Builder) writeOutputs(ctx context.Context, doc *render.Document) error {
	ctx, span := b.telemetry.StartSpan(ctx, "write", attribute.String("output", b.cfg.Build.Output))
	defer span.End()

	if err := b.exporter.WriteHTML(b.cfg.Build.Output, doc); err != nil {
		infrastructure.RecordError(ctx, err)
		return errors.NewOutputError("write_html", "failed to write document", err).
			WithContext("path", b.cfg.Build.Output)
	}
	b.logger.DebugContext(ctx, "Document written",
		slog.String("path", b.cfg.Build.Output),
		slog.Int("bytes", len(doc.HTML)))

	if path := b.cfg.Build.CSVOutput; path != "" {
		if err := b.exporter.WriteRowsCSV(path, doc.Rows); err != nil {
			infrastructure.RecordError(ctx, err)
			return errors.NewOutputError("write_csv", "failed to write CSV mirror", err).
				WithContext("path", path)
		}
		b.logger.DebugContext(ctx, "CSV mirror written",
			slog.String("path", path),
			slog.Int("rows", len(doc.Rows)))
	}

	if b.cfg.Build.Snapshot != "" {
		return b.snapshot(ctx)
	}
	return nil
}

func (b *Builder) snapshot(ctx context.Context) error {
	ctx, span := b.telemetry.StartSpan(ctx, "snapshot", attribute.String("path", b.cfg.Build.Snapshot))
	defer span.End()

	png, err := b.capture(ctx, b.cfg.Build.Output, snapshot.Options{Width: b.cfg.Build.SnapshotWidth}, b.logger)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return errors.NewSnapshotError("failed to capture page", err).
			WithContext("path", b.cfg.Build.Output)
	}
	if err := b.files.WriteFileAtomic(b.cfg.Build.Snapshot, png); err != nil {
		infrastructure.RecordError(ctx, err)
		return errors.NewOutputError("write_snapshot", "failed to write snapshot", err).
			WithContext("path", b.cfg.Build.Snapshot)
	}
	b.logger.DebugContext(ctx, "Snapshot written",
		slog.String("path", b.cfg.Build.Snapshot),
		slog.Int("bytes", len(png)))
	return nil
}

func (b *Builder) record(ctx context.Context, duration time.Duration, result *Result, err error) {
	if b.telemetry == nil {
		return
	}
	var rows map[string]int
	warnings := 0
	if result != nil {
		rows = result.Document.Stats.ByKind()
		warnings = result.Document.Stats.Warnings
	}
	b.telemetry.Metrics.RecordBuild(ctx, duration, rows, warnings, err)
}
