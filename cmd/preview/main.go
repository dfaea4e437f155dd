// Command preview serves the record history page and rebuilds it whenever the
// spreadsheet changes, reloading open browser tabs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pphistory/internal/app"
	"pphistory/internal/config"
	"pphistory/internal/errors"
	"pphistory/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (defaults to "+config.DefaultConfigFile+" when present)")
	input := flag.String("in", "", "input .xlsx/.csv file or gsheet://<id>/<range>")
	sheet := flag.String("sheet", "", "worksheet name (defaults to the first sheet)")
	addr := flag.String("addr", "", "listen address (default from config, 127.0.0.1:8080)")
	siteDir := flag.String("site", "", "directory holding style.css and the asset folders")
	today := flag.String("today", "", "reference date YYYY-MM-DD for days maintained")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err == nil {
		for dst, v := range map[*string]string{
			&cfg.Build.Input:     *input,
			&cfg.Build.Sheet:     *sheet,
			&cfg.Preview.Addr:    *addr,
			&cfg.Preview.SiteDir: *siteDir,
			&cfg.Build.Today:     *today,
		} {
			if v != "" {
				*dst = v
			}
		}
		err = cfg.Validate()
	}
	if err != nil {
		cerr := errors.NewConfigError("invalid configuration", err)
		fmt.Fprintln(os.Stderr, cerr.Error())
		os.Exit(errors.ExitCode(cerr))
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
		os.Exit(errors.ExitCode(errors.NewConfigError("invalid telemetry configuration", err)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting preview",
		slog.String("version", config.AppVersion),
		slog.String("input", cfg.Build.Input),
		slog.String("addr", cfg.Preview.Addr))

	runErr := app.NewPreview(cfg, telemetry, logger).Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Preview.ShutdownTimeout)
	defer cancel()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logger.Error("Preview stopped with error", slog.String("error", runErr.Error()))
		stop()
		os.Exit(1)
	}
	logger.Info("Preview stopped")
}
