// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Package config loads layered configuration for both Craftwatch binaries.
//
// Settings are resolved with Koanf v2 from three layers, highest priority last:
// built-in defaults, an optional YAML config file, and environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration shared by the scraper and the API server.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Scraper  ScraperConfig  `koanf:"scraper"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig tunes the embedded SQLite store.
type DatabaseConfig struct {
	// Path is the database file location. Empty or ":memory:" opens an
	// in-memory database (used by tests).
	Path string `koanf:"path"`

	// BusyTimeout is how long a connection waits on the write lock before
	// failing, in milliseconds.
	BusyTimeout int `koanf:"busy_timeout" validate:"min=0"`
}

// ScraperConfig controls one polling cycle.
type ScraperConfig struct {
	// ServersFile is the JSON file listing the servers to poll.
	ServersFile string `koanf:"servers_file" validate:"required"`

	// LockFile backs the single-instance lock for the scraper.
	LockFile string `koanf:"lock_file" validate:"required"`

	// ProbeTimeout bounds one status query (dial + read) per server.
	ProbeTimeout time.Duration `koanf:"probe_timeout" validate:"min=1ms"`

	// CycleTimeout bounds a whole cycle above the per-probe timeouts, so a
	// hung remote cannot stall the scraper indefinitely.
	CycleTimeout time.Duration `koanf:"cycle_timeout" validate:"min=1ms"`

	// Interval enables periodic mode in cmd/scraper; 0 means one cycle per
	// invocation (cron-style).
	Interval time.Duration `koanf:"interval"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1ms"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=1ms"`
}

// APIConfig bounds the read API query parameters.
type APIConfig struct {
	DefaultPeriodDays int `koanf:"default_period_days" validate:"min=1"`
	MaxPeriodDays     int `koanf:"max_period_days" validate:"min=1"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "/data/craftwatch.db",
			BusyTimeout: 5000,
		},
		Scraper: ScraperConfig{
			ServersFile:  "servers.json",
			LockFile:     "/tmp/craftwatch_scraper.lock",
			ProbeTimeout: 5 * time.Second,
			CycleTimeout: 60 * time.Second,
			Interval:     0,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            23282,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		API: APIConfig{
			DefaultPeriodDays: 7,
			MaxPeriodDays:     365,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values that would only fail later at
// runtime. Struct tags cover ranges; cross-field rules are checked by hand.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.API.DefaultPeriodDays > c.API.MaxPeriodDays {
		return fmt.Errorf("api.default_period_days (%d) exceeds api.max_period_days (%d)",
			c.API.DefaultPeriodDays, c.API.MaxPeriodDays)
	}
	if c.Scraper.CycleTimeout < c.Scraper.ProbeTimeout {
		return fmt.Errorf("scraper.cycle_timeout (%s) is shorter than scraper.probe_timeout (%s)",
			c.Scraper.CycleTimeout, c.Scraper.ProbeTimeout)
	}
	return nil
}
