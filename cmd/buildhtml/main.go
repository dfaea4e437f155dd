// Command buildhtml turns the pp record spreadsheet into the static history page.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pphistory/internal/app"
	"pphistory/internal/config"
	"pphistory/internal/errors"
	"pphistory/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// options are the command line overrides of the loaded configuration
type options struct {
	configFile string
	input      string
	output     string
	sheet      string
	csv        string
	snapshot   string
	today      string
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("buildhtml", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to "+config.DefaultConfigFile+" when present)")
	fs.StringVar(&opts.input, "in", "", "input .xlsx/.csv file or gsheet://<id>/<range>")
	fs.StringVar(&opts.output, "out", "", "output HTML file")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet name (defaults to the first sheet)")
	fs.StringVar(&opts.csv, "csv", "", "also write the rendered rows as CSV to this path")
	fs.StringVar(&opts.snapshot, "snapshot", "", "also write a PNG screenshot of the page to this path")
	fs.StringVar(&opts.today, "today", "", "reference date YYYY-MM-DD for days maintained (defaults to today)")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// apply overrides cfg with every flag that was given
func (o *options) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Build.Input, o.input)
	set(&cfg.Build.Output, o.output)
	set(&cfg.Build.Sheet, o.sheet)
	set(&cfg.Build.CSVOutput, o.csv)
	set(&cfg.Build.Snapshot, o.snapshot)
	set(&cfg.Build.Today, o.today)
	set(&cfg.Logging.Level, o.logLevel)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return errors.ExitCode(errors.NewConfigError("invalid arguments", err))
	}

	cfg, err := config.Load(opts.configFile)
	if err == nil {
		opts.apply(cfg)
		err = cfg.Validate()
	}
	if err != nil {
		cerr := errors.NewConfigError("invalid configuration", err)
		fmt.Fprintln(stderr, cerr.Error())
		return errors.ExitCode(cerr)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, nil, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return errors.ExitCode(errors.NewConfigError("invalid telemetry configuration", err))
	}
	defer telemetry.Shutdown(context.Background())

	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())
	logger.InfoContext(ctx, "Starting build",
		slog.String("version", config.AppVersion),
		slog.String("input", cfg.Build.Input),
		slog.String("output", cfg.Build.Output),
		slog.Time("reference_date", cfg.ReferenceDate(time.Now())))

	_, buildErr := app.NewBuilder(cfg, telemetry, logger).Build(ctx)

	if err := telemetry.WriteMetricsTextfile(cfg.Telemetry.MetricsTextfile); err != nil {
		logger.WarnContext(ctx, "Failed to write metrics textfile",
			slog.String("path", cfg.Telemetry.MetricsTextfile),
			slog.String("error", err.Error()))
	}

	if buildErr != nil {
		fmt.Fprintln(stderr, buildErr.Error())
		return errors.ExitCode(buildErr)
	}
	return 0
}
