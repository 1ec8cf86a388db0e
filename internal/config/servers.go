// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/craftwatch/craftwatch/internal/models"
)

// LoadServers reads the polling target list from a JSON file. The file holds
// an ordered array of {id, name, ip, port} objects:
//
//	[
//	  {"id": "hypixel", "name": "Hypixel", "ip": "mc.hypixel.net", "port": 25565}
//	]
//
// A missing or malformed file is a fatal error for the calling cycle. Duplicate
// server ids are rejected here rather than surfacing later as a constraint
// violation mid-persist.
func LoadServers(path string) ([]models.Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read servers file %s: %w", path, err)
	}

	var servers []models.Server
	if err := json.Unmarshal(data, &servers); err != nil {
		return nil, fmt.Errorf("failed to parse servers file %s: %w", path, err)
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("servers file %s lists no servers", path)
	}

	validate := validator.New()
	seen := make(map[string]struct{}, len(servers))
	for i, srv := range servers {
		if err := validate.Struct(srv); err != nil {
			return nil, fmt.Errorf("invalid server entry %d in %s: %w", i, path, err)
		}
		if _, dup := seen[srv.ID]; dup {
			return nil, fmt.Errorf("duplicate server id %q in %s", srv.ID, path)
		}
		seen[srv.ID] = struct{}{}
	}

	return servers, nil
}
