// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package database

import (
	"context"
	"fmt"
)

// schemaStatements creates the Craftwatch schema. Every statement is
// idempotent (IF NOT EXISTS) so the scraper can run them at the start of
// each cycle.
//
// Timestamps are stored as UTC epoch milliseconds so window queries compare
// numerically. The association table's composite primary key de-duplicates
// repeated player/snapshot links: observing the same username twice in one
// probe result yields one association row.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS servers (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		ip VARCHAR NOT NULL,
		port INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS player_counts (
		id INTEGER PRIMARY KEY,
		server_id VARCHAR NOT NULL REFERENCES servers(id),
		timestamp INTEGER NOT NULL,
		player_count INTEGER NOT NULL CHECK (player_count >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY,
		username VARCHAR NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS player_snapshot_association (
		player_count_id INTEGER NOT NULL REFERENCES player_counts(id),
		player_id INTEGER NOT NULL REFERENCES players(id),
		PRIMARY KEY (player_count_id, player_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_counts_server_ts
		ON player_counts (server_id, timestamp)`,
}

// createSchema creates tables and indexes if absent.
func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
