package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pitchstats/matchform/internal/app"
	"github.com/pitchstats/matchform/internal/config"
	"github.com/pitchstats/matchform/internal/observability"
	"github.com/pitchstats/matchform/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("batch run failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *logging.Logger) error {
	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}()

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stopPyroscope(); err != nil {
			logger.Error("stop pyroscope", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("batch run starting",
		"feed_dir", cfg.FeedDir,
		"dataset_path", cfg.DatasetPath,
		"window_size", cfg.WindowSize,
		"exact_results", cfg.ExactResults,
	)
	if err := app.Run(ctx, cfg, logger); err != nil {
		return err
	}
	logger.Info("batch run complete")

	return nil
}
