package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"pphistory/internal/config"
)

// InstrumentationName names the tracer and meter of this module
const InstrumentationName = "pphistory"

// Telemetry holds the OpenTelemetry providers of one process
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	// Registry receives every metric exported through the meter
	Registry *prometheus.Registry
	Metrics  *BuildMetrics
	Logger   *slog.Logger
}

// BuildMetrics are the instruments recorded for each document build
type BuildMetrics struct {
	BuildsTotal   metric.Int64Counter
	BuildDuration metric.Float64Histogram
	RowsTotal     metric.Int64Counter
	WarningsTotal metric.Int64Counter
	BuildErrors   metric.Int64Counter
}

// InitializeTelemetry sets up tracing and metrics. traceOut receives pretty
// printed spans when the stdout exporter is selected; nil means os.Stdout.
func InitializeTelemetry(cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = config.AppName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	t := &Telemetry{Logger: logger}

	switch cfg.TraceExporter {
	case "stdout":
		if traceOut == nil {
			traceOut = os.Stdout
		}
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(traceOut),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(t.TracerProvider)
		t.Tracer = t.TracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		t.Tracer = otel.GetTracerProvider().Tracer(InstrumentationName)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	t.Registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))

	t.Metrics, err = CreateBuildMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create build metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("service", serviceName))

	return t, nil
}

// CreateBuildMetrics creates the document build instruments
func CreateBuildMetrics(meter metric.Meter) (*BuildMetrics, error) {
	buildsTotal, err := meter.Int64Counter(
		"pphistory_builds",
		metric.WithDescription("Number of document builds"),
	)
	if err != nil {
		return nil, err
	}

	buildDuration, err := meter.Float64Histogram(
		"pphistory_build_duration_seconds",
		metric.WithDescription("Document build duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsTotal, err := meter.Int64Counter(
		"pphistory_rows",
		metric.WithDescription("Rows processed by classification"),
	)
	if err != nil {
		return nil, err
	}

	warningsTotal, err := meter.Int64Counter(
		"pphistory_warnings",
		metric.WithDescription("Diagnostics raised while rendering"),
	)
	if err != nil {
		return nil, err
	}

	buildErrors, err := meter.Int64Counter(
		"pphistory_build_errors",
		metric.WithDescription("Builds that failed"),
	)
	if err != nil {
		return nil, err
	}

	return &BuildMetrics{
		BuildsTotal:   buildsTotal,
		BuildDuration: buildDuration,
		RowsTotal:     rowsTotal,
		WarningsTotal: warningsTotal,
		BuildErrors:   buildErrors,
	}, nil
}

// RecordBuild records the outcome of one build
func (m *BuildMetrics) RecordBuild(ctx context.Context, duration time.Duration, rows map[string]int, warnings int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
		m.BuildErrors.Add(ctx, 1)
	}
	m.BuildsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.BuildDuration.Record(ctx, duration.Seconds())
	for kind, n := range rows {
		m.RowsTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
	}
	m.WarningsTotal.Add(ctx, int64(warnings))
}

// WriteMetricsTextfile writes the registry in Prometheus text format, for
// node_exporter's textfile collector
func (t *Telemetry) WriteMetricsTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// StartSpan starts a span on the telemetry tracer, or a no-op span when t is nil
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(InstrumentationName)
	if t != nil && t.Tracer != nil {
		tracer = t.Tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// RecordError records an error on the span in ctx
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}
