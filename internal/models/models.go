// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Package models defines the domain types shared by the scraper and the API.
package models

import "time"

// Server is a configured Minecraft server to poll. Rows are created once at
// bootstrap and never mutated by the scraper.
type Server struct {
	ID   string `json:"id" koanf:"id" validate:"required"`
	Name string `json:"name" koanf:"name" validate:"required"`
	IP   string `json:"ip" koanf:"ip" validate:"required"`
	Port int    `json:"port" koanf:"port" validate:"min=1,max=65535"`
}

// PlayerCountSnapshot is one persisted, timestamped observation of a server's
// population. Snapshots are append-only; all snapshots written in one scrape
// cycle share the same timestamp.
type PlayerCountSnapshot struct {
	ID          int64     `json:"id"`
	ServerID    string    `json:"server_id"`
	Timestamp   time.Time `json:"timestamp"`
	PlayerCount int       `json:"player_count"`
}

// Player is an observed player identity, keyed by username. Players are
// created on first observation and reused on every later one.
type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ProbeResult is the transient outcome of probing one server. It lives only
// within a scrape cycle and is discarded after persistence.
type ProbeResult struct {
	ServerID    string
	PlayerCount int
	Players     []string
	Success     bool
}

// ServerStats aggregates player counts for one server over a time window.
type ServerStats struct {
	ServerID       string  `json:"server_id"`
	ServerName     string  `json:"server_name"`
	PeriodDays     int     `json:"period_days"`
	MinPlayers     int     `json:"min_players"`
	MaxPlayers     int     `json:"max_players"`
	AvgPlayers     float64 `json:"avg_players"`
	TotalSnapshots int     `json:"total_snapshots"`
}
