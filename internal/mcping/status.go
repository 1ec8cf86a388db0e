// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package mcping

import "github.com/goccy/go-json"

// StatusResponse is the JSON payload a server returns to a status query.
// Only the fields Craftwatch consumes are modeled; unknown fields are ignored.
type StatusResponse struct {
	Version     Version         `json:"version"`
	Players     Players         `json:"players"`
	Description json.RawMessage `json:"description"`
}

// Version identifies the server software version.
type Version struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// Players reports the population at query time. Sample is an optional,
// server-chosen subset of online players; many servers omit or randomize it.
type Players struct {
	Online int          `json:"online"`
	Max    int          `json:"max"`
	Sample []PlayerInfo `json:"sample"`
}

// PlayerInfo is one sampled player identity.
type PlayerInfo struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}
