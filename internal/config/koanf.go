// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/craftwatch/config.yaml",
	"/etc/craftwatch/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envKeyMap maps accepted environment variables to koanf paths. Explicit
// mapping avoids ambiguity between underscores in variable names and nesting
// separators (SERVERS_FILE is one key, not servers.file).
var envKeyMap = map[string]string{
	"DATABASE_PATH":         "database.path",
	"DATABASE_BUSY_TIMEOUT": "database.busy_timeout",
	"SERVERS_FILE":          "scraper.servers_file",
	"LOCK_FILE":             "scraper.lock_file",
	"PROBE_TIMEOUT":         "scraper.probe_timeout",
	"CYCLE_TIMEOUT":         "scraper.cycle_timeout",
	"SCRAPE_INTERVAL":       "scraper.interval",
	"HOST":                  "server.host",
	"PORT":                  "server.port",
	"SERVER_TIMEOUT":        "server.timeout",
	"RATE_LIMIT_REQS":       "server.rate_limit_reqs",
	"RATE_LIMIT_WINDOW":     "server.rate_limit_window",
	"DEFAULT_PERIOD_DAYS":   "api.default_period_days",
	"MAX_PERIOD_DAYS":       "api.max_period_days",
	"LOG_LEVEL":             "logging.level",
	"LOG_FORMAT":            "logging.format",
	"LOG_CALLER":            "logging.caller",
}

// Load resolves configuration from defaults, an optional YAML file, and
// environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", func(name string) string {
		return envKeyMap[name]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
