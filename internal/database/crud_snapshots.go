// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/craftwatch/craftwatch/internal/models"
)

// toMillis converts a timestamp to the UTC epoch milliseconds the schema
// stores.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// InsertSnapshot writes one player-count snapshot inside tx and returns the
// generated id. The id is materialized immediately (RETURNING) because the
// association rows written later in the same transaction need it.
func (db *DB) InsertSnapshot(ctx context.Context, tx *sql.Tx, serverID string, ts time.Time, playerCount int) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO player_counts (server_id, timestamp, player_count)
		 VALUES (?, ?, ?) RETURNING id`,
		serverID, toMillis(ts), playerCount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot for server %s: %w", serverID, err)
	}
	return id, nil
}

// GetOrCreatePlayer looks up a player by username inside tx, creating the row
// on first observation. The UNIQUE constraint on username backs this up: the
// lookup-or-insert can never produce duplicate rows for one username.
func (db *DB) GetOrCreatePlayer(ctx context.Context, tx *sql.Tx, username string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM players WHERE username = ?`, username).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up player %q: %w", username, err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO players (username) VALUES (?) RETURNING id`, username).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create player %q: %w", username, err)
	}
	return id, nil
}

// AssociatePlayer links a player to a snapshot inside tx. Repeat links for
// the same pair are ignored via the composite primary key.
func (db *DB) AssociatePlayer(ctx context.Context, tx *sql.Tx, snapshotID, playerID int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO player_snapshot_association (player_count_id, player_id)
		 VALUES (?, ?) ON CONFLICT DO NOTHING`,
		snapshotID, playerID)
	if err != nil {
		return fmt.Errorf("failed to associate player %d with snapshot %d: %w", playerID, snapshotID, err)
	}
	return nil
}

// GetPlayerCounts returns snapshots for a server within [start, end], ordered
// by timestamp ascending.
func (db *DB) GetPlayerCounts(ctx context.Context, serverID string, start, end time.Time) ([]models.PlayerCountSnapshot, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, server_id, timestamp, player_count
		 FROM player_counts
		 WHERE server_id = ? AND timestamp >= ? AND timestamp <= ?
		 ORDER BY timestamp ASC`,
		serverID, toMillis(start), toMillis(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query player counts for %s: %w", serverID, err)
	}
	defer rows.Close()

	var snapshots []models.PlayerCountSnapshot
	for rows.Next() {
		var s models.PlayerCountSnapshot
		var ts int64
		if err := rows.Scan(&s.ID, &s.ServerID, &ts, &s.PlayerCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		s.Timestamp = fromMillis(ts)
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot rows: %w", err)
	}
	return snapshots, nil
}

// GetSnapshotPlayers returns the usernames associated with one snapshot.
// Ordering within a snapshot is not guaranteed by the scraper, so results are
// ordered by username for stable output.
func (db *DB) GetSnapshotPlayers(ctx context.Context, snapshotID int64) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.username
		 FROM players p
		 JOIN player_snapshot_association a ON a.player_id = p.id
		 WHERE a.player_count_id = ?
		 ORDER BY p.username`,
		snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot players: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan player name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate player names: %w", err)
	}
	return names, nil
}

// GetServerStats aggregates min/max/avg player counts and the snapshot count
// for a server within [start, end]. An empty window yields zeros, not an
// error; the API layer decides how to present that.
func (db *DB) GetServerStats(ctx context.Context, serverID string, start, end time.Time) (*models.ServerStats, error) {
	var stats models.ServerStats
	err := db.conn.QueryRowContext(ctx,
		`SELECT
			COALESCE(MIN(player_count), 0),
			COALESCE(MAX(player_count), 0),
			COALESCE(AVG(player_count), 0),
			COUNT(id)
		 FROM player_counts
		 WHERE server_id = ? AND timestamp >= ? AND timestamp <= ?`,
		serverID, toMillis(start), toMillis(end)).
		Scan(&stats.MinPlayers, &stats.MaxPlayers, &stats.AvgPlayers, &stats.TotalSnapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats for %s: %w", serverID, err)
	}
	stats.ServerID = serverID
	return &stats, nil
}
