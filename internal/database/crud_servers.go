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

	"github.com/craftwatch/craftwatch/internal/models"
)

// UpsertServer creates the server row if it does not exist. Existing rows are
// left untouched; server records are immutable within a cycle.
func (db *DB) UpsertServer(ctx context.Context, srv models.Server) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO servers (id, name, ip, port) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		srv.ID, srv.Name, srv.IP, srv.Port)
	if err != nil {
		return fmt.Errorf("failed to upsert server %s: %w", srv.ID, err)
	}
	return nil
}

// GetServer fetches one server by id. Returns ErrNotFound if absent.
func (db *DB) GetServer(ctx context.Context, id string) (*models.Server, error) {
	var srv models.Server
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, ip, port FROM servers WHERE id = ?`, id).
		Scan(&srv.ID, &srv.Name, &srv.IP, &srv.Port)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("server %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query server %s: %w", id, err)
	}
	return &srv, nil
}

// ListServers returns all monitored servers ordered by id.
func (db *DB) ListServers(ctx context.Context) ([]models.Server, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, ip, port FROM servers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query servers: %w", err)
	}
	defer rows.Close()

	var servers []models.Server
	for rows.Next() {
		var srv models.Server
		if err := rows.Scan(&srv.ID, &srv.Name, &srv.IP, &srv.Port); err != nil {
			return nil, fmt.Errorf("failed to scan server row: %w", err)
		}
		servers = append(servers, srv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate server rows: %w", err)
	}
	return servers, nil
}
