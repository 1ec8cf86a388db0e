// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package scraper

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/craftwatch/craftwatch/internal/database"
	"github.com/craftwatch/craftwatch/internal/logging"
	"github.com/craftwatch/craftwatch/internal/metrics"
	"github.com/craftwatch/craftwatch/internal/models"
)

// Persister writes one cycle's probe results into the database.
type Persister struct {
	db *database.DB
}

// NewPersister creates a Persister over the given database.
func NewPersister(db *database.DB) *Persister {
	return &Persister{db: db}
}

// SaveResults stages the batch inside tx: one snapshot per successful result,
// all sharing a single capture timestamp so cross-server comparisons line up;
// players are looked up or created by username and linked to the snapshot.
// Failed results are skipped entirely, with no placeholder rows.
//
// The caller owns the transaction and commits it exactly once after this
// returns. Any error here aborts the whole batch; partial persistence across
// servers within a cycle is not a supported outcome.
func (p *Persister) SaveResults(ctx context.Context, tx *sql.Tx, results []models.ProbeResult) error {
	timestamp := time.Now().UTC()

	for _, result := range results {
		if !result.Success {
			continue
		}

		snapshotID, err := p.db.InsertSnapshot(ctx, tx, result.ServerID, timestamp, result.PlayerCount)
		if err != nil {
			return fmt.Errorf("persist snapshot for server %s: %w", result.ServerID, err)
		}

		for _, username := range result.Players {
			playerID, err := p.db.GetOrCreatePlayer(ctx, tx, username)
			if err != nil {
				return fmt.Errorf("persist player for server %s: %w", result.ServerID, err)
			}
			if err := p.db.AssociatePlayer(ctx, tx, snapshotID, playerID); err != nil {
				return fmt.Errorf("persist association for server %s: %w", result.ServerID, err)
			}
		}

		metrics.SnapshotsWritten.Inc()
		logging.Debug().
			Str("server", result.ServerID).
			Int64("snapshot_id", snapshotID).
			Int("player_count", result.PlayerCount).
			Msg("Snapshot staged")
	}

	return nil
}
