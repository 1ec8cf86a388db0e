// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/craftwatch/craftwatch/internal/config"
	"github.com/craftwatch/craftwatch/internal/database"
	"github.com/craftwatch/craftwatch/internal/lock"
	"github.com/craftwatch/craftwatch/internal/logging"
	"github.com/craftwatch/craftwatch/internal/metrics"
)

// Coordinator orchestrates one scrape cycle end to end.
type Coordinator struct {
	cfg    *config.Config
	client StatusClient
}

// NewCoordinator creates a cycle coordinator. client is typically an
// *mcping.Client built from cfg.Scraper.ProbeTimeout.
func NewCoordinator(cfg *config.Config, client StatusClient) *Coordinator {
	return &Coordinator{cfg: cfg, client: client}
}

// RunCycle executes one full cycle:
// lock -> open db (schema) -> load targets -> bootstrap -> collect -> persist -> unlock.
//
// Lock contention returns lock.ErrAlreadyLocked immediately; any other error
// propagates after the lock and the database are cleaned up. The lock is
// released unconditionally on every exit path.
func (c *Coordinator) RunCycle(ctx context.Context) error {
	start := time.Now()

	instanceLock := lock.New(c.cfg.Scraper.LockFile)
	if err := instanceLock.Acquire(); err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			metrics.ScrapeCyclesTotal.WithLabelValues("lock_contention").Inc()
		}
		return err
	}
	defer instanceLock.Release()

	// A cycle-level deadline above the per-probe timeouts keeps a hung remote
	// connection from stalling the scraper past its schedule.
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Scraper.CycleTimeout)
	defer cancel()

	err := c.runLocked(ctx)

	elapsed := time.Since(start)
	metrics.ScrapeCycleDuration.Observe(elapsed.Seconds())
	if err != nil {
		metrics.ScrapeCyclesTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.ScrapeCyclesTotal.WithLabelValues("success").Inc()
	logging.Info().Dur("elapsed", elapsed).Msg("Scrape cycle complete")
	return nil
}

// runLocked performs the work between lock acquisition and release.
func (c *Coordinator) runLocked(ctx context.Context) error {
	// The database opens only while the instance lock is held, so two
	// cycles can never interleave writes. Opening also creates the schema.
	db, err := database.New(&c.cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close database")
		}
	}()

	servers, err := config.LoadServers(c.cfg.Scraper.ServersFile)
	if err != nil {
		return err
	}

	for _, srv := range servers {
		if err := db.UpsertServer(ctx, srv); err != nil {
			return fmt.Errorf("bootstrap servers: %w", err)
		}
	}

	collector := NewCollector(NewProber(c.client))
	results := collector.CollectAll(ctx, servers)

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	logging.Info().
		Int("targets", len(servers)).
		Int("succeeded", succeeded).
		Int("failed", len(servers)-succeeded).
		Msg("Collection complete")

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := NewPersister(db).SaveResults(ctx, tx, results); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Warn().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scrape batch: %w", err)
	}

	return nil
}
