package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kapu/imas-line-bot-go/internal/app"
	"github.com/kapu/imas-line-bot-go/internal/config"
	"github.com/kapu/imas-line-bot-go/internal/health"
	"github.com/kapu/imas-line-bot-go/internal/util"
)

const buildTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := util.NewLogger(util.LogConfig{
		Level:      cfg.Logging.Level,
		Dir:        cfg.Logging.Dir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}, "bot.log")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	health.Init(cfg.Version)
	logger.Info("im@s LINE profile bot starting...",
		slog.String("version", cfg.Version),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("sparql_endpoint", cfg.Sparql.Endpoint),
		slog.Bool("dedup", cfg.Valkey.Enabled()),
	)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), buildTimeout)
	runtime, err := app.BuildRuntime(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", slog.Any("error", err))
		return err
	}
	defer runtime.Close()

	return runtime.Run(context.Background())
}
