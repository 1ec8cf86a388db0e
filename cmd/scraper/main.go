// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Command scraper runs Craftwatch polling cycles.
//
// By default it runs exactly one cycle and exits, which suits cron or a
// systemd timer. With scraper.interval configured (or SCRAPE_INTERVAL set)
// it runs periodically until interrupted.
//
// Exit codes:
//
//	0  cycle completed
//	1  another instance already holds the scraper lock
//	2  the cycle failed (configuration, probe collection or persistence)
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/craftwatch/craftwatch/internal/config"
	"github.com/craftwatch/craftwatch/internal/lock"
	"github.com/craftwatch/craftwatch/internal/logging"
	"github.com/craftwatch/craftwatch/internal/mcping"
	"github.com/craftwatch/craftwatch/internal/scraper"
)

const (
	exitOK       = 0
	exitLockHeld = 1
	exitFailure  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	once := flag.Bool("once", false, "run a single cycle even if an interval is configured")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Err(err).Msg("Failed to load configuration")
		return exitFailure
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	client := mcping.NewClient(mcping.Config{
		DialTimeout: cfg.Scraper.ProbeTimeout,
		ReadTimeout: cfg.Scraper.ProbeTimeout,
	})
	coordinator := scraper.NewCoordinator(cfg, client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Scraper.Interval <= 0 || *once {
		return runOnce(ctx, coordinator)
	}
	return runLoop(ctx, coordinator, cfg.Scraper.Interval)
}

func runOnce(ctx context.Context, coordinator *scraper.Coordinator) int {
	err := coordinator.RunCycle(ctx)
	if errors.Is(err, lock.ErrAlreadyLocked) {
		logging.Error().Msg("Another instance is already running")
		return exitLockHeld
	}
	if err != nil {
		logging.Err(err).Msg("Scrape cycle failed")
		return exitFailure
	}
	return exitOK
}

// runLoop runs cycles until the context is canceled. In periodic mode a
// failed or skipped cycle is logged and the next tick retries; only the
// operator stopping the process ends the loop.
func runLoop(ctx context.Context, coordinator *scraper.Coordinator, interval time.Duration) int {
	logging.Info().Dur("interval", interval).Msg("Starting periodic scraper")

	cycle := func() {
		err := coordinator.RunCycle(ctx)
		switch {
		case errors.Is(err, lock.ErrAlreadyLocked):
			logging.Warn().Msg("Skipping cycle: another instance is already running")
		case err != nil:
			logging.Err(err).Msg("Scrape cycle failed")
		}
	}

	cycle()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Scraper stopping")
			return exitOK
		case <-ticker.C:
			cycle()
		}
	}
}
