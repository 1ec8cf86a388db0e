// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package models

import "time"

// APIResponse is the envelope for all JSON API responses.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count,omitempty"`
}

// APIError describes an API failure.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthStatus reports liveness of the API server and its database.
type HealthStatus struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	DatabaseConnected bool   `json:"database_connected"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
}
