// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeServersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servers.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write servers file: %v", err)
	}
	return path
}

func TestLoadServers(t *testing.T) {
	path := writeServersFile(t, `[
		{"id": "hypixel", "name": "Hypixel", "ip": "mc.hypixel.net", "port": 25565},
		{"id": "local", "name": "Local Test", "ip": "127.0.0.1", "port": 25566}
	]`)

	servers, err := LoadServers(path)
	if err != nil {
		t.Fatalf("LoadServers() error = %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("len(servers) = %d, want 2", len(servers))
	}
	if servers[0].ID != "hypixel" {
		t.Errorf("servers[0].ID = %q, want %q", servers[0].ID, "hypixel")
	}
	if servers[1].Port != 25566 {
		t.Errorf("servers[1].Port = %d, want 25566", servers[1].Port)
	}
}

func TestLoadServersErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"id": "a"`},
		{name: "object instead of array", content: `{"id": "a"}`},
		{name: "empty list", content: `[]`},
		{
			name: "missing ip",
			content: `[
				{"id": "a", "name": "A", "ip": "", "port": 25565}
			]`,
		},
		{
			name: "port out of range",
			content: `[
				{"id": "a", "name": "A", "ip": "example.com", "port": 0}
			]`,
		},
		{
			name: "duplicate ids",
			content: `[
				{"id": "a", "name": "A", "ip": "a.example.com", "port": 25565},
				{"id": "a", "name": "Also A", "ip": "b.example.com", "port": 25565}
			]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeServersFile(t, tt.content)
			if _, err := LoadServers(path); err == nil {
				t.Error("LoadServers() = nil error, want failure")
			}
		})
	}
}

func TestLoadServersMissingFile(t *testing.T) {
	if _, err := LoadServers(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadServers() = nil error, want failure for missing file")
	}
}
