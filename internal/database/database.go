// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Package database is the SQLite storage layer for Craftwatch.
//
// The scraper and the API server are separate processes sharing one database
// file. WAL journaling lets the API keep reading while a scrape cycle
// commits; a busy timeout covers the brief write lock during commit. The
// scraper's own mutual exclusion is the instance lock in package lock, not
// the database.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/craftwatch/craftwatch/internal/config"
	"github.com/craftwatch/craftwatch/internal/logging"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// DB wraps the SQLite connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database and initializes the schema. Schema creation is
// idempotent, so calling this every scrape cycle is safe.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	inMemory := cfg.Path == "" || cfg.Path == ":memory:"

	conn, err := sql.Open("sqlite", connString(cfg, inMemory))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if inMemory {
		// Each in-memory connection is its own database; pin the pool to
		// one connection so the schema stays visible.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(4)
	}

	if err := conn.Ping(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	if err := db.createSchema(context.Background()); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// connString builds the DSN. An empty or ":memory:" path opens an in-memory
// database, which is what tests use.
func connString(cfg *config.DatabaseConfig, inMemory bool) string {
	if inMemory {
		return ":memory:"
	}

	// Ensure the parent directory exists before SQLite touches the file.
	if dbDir := filepath.Dir(cfg.Path); dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			logging.Warn().Err(err).Str("dir", dbDir).Msg("Failed to create database directory")
		}
	}

	return filepath.Clean(cfg.Path) +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		fmt.Sprintf("&_pragma=busy_timeout(%d)", cfg.BusyTimeout) +
		"&_pragma=synchronous(NORMAL)"
}

// Conn returns the underlying SQL connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// BeginTx starts a transaction. The scraper persists each cycle's batch in
// exactly one transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Ping checks that the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return errors.New("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func closeQuietly(c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close resource")
	}
}
