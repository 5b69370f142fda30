package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/korimako-labs/trademe-probe/internal/app"
	"github.com/korimako-labs/trademe-probe/internal/config"
	"github.com/korimako-labs/trademe-probe/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("probe starting", "target", map[string]any{
		"base_url":   cfg.BaseURL,
		"listing_id": cfg.ProbeListingID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probe, err := app.NewProbe(ctx, cfg)
	if err != nil {
		logger.ErrorObj("failed to initialize probe", "error", err)
		return err
	}
	defer probe.Close()

	if err := probe.Run(ctx); err != nil {
		return fmt.Errorf("probe run: %w", err)
	}

	logger.InfoObj("probe finished", "listing_id", cfg.ProbeListingID)
	return nil
}
