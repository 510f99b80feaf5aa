package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MarketRadar/internal/app"
	"MarketRadar/internal/config"
	"MarketRadar/internal/logging"
	"MarketRadar/internal/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(config.RequireDatabase, config.RequireLLM); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	application := app.New(cfg, logger)

	result, err := application.RunMarketRadar(ctx)
	if result.RunID != "" {
		_ = report.RenderRun(os.Stdout, result)
	}
	if err != nil {
		logger.Error("market radar run failed", "error", err)
		os.Exit(1)
	}
}
