// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package scraper

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/craftwatch/craftwatch/internal/mcping"
	"github.com/craftwatch/craftwatch/internal/models"
)

// One result per target, and a failing target never disturbs its siblings.
func TestCollectAll(t *testing.T) {
	counts := map[string]int{
		"alpha.example.com":   3,
		"charlie.example.com": 12,
	}
	client := &fakeStatusClient{
		statusFn: func(ctx context.Context, host string, port int) (*mcping.StatusResponse, error) {
			online, ok := counts[host]
			if !ok {
				return nil, errors.New("host unreachable")
			}
			return &mcping.StatusResponse{Players: mcping.Players{Online: online}}, nil
		},
	}

	servers := []models.Server{testServer("alpha"), testServer("bravo"), testServer("charlie")}
	results := NewCollector(NewProber(client)).CollectAll(context.Background(), servers)

	if len(results) != len(servers) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(servers))
	}

	byID := make(map[string]models.ProbeResult, len(results))
	for _, r := range results {
		byID[r.ServerID] = r
	}
	for _, srv := range servers {
		if _, ok := byID[srv.ID]; !ok {
			t.Fatalf("no result for server %q", srv.ID)
		}
	}

	if r := byID["alpha"]; !r.Success || r.PlayerCount != 3 {
		t.Errorf("alpha = %+v, want success with count 3", r)
	}
	if r := byID["bravo"]; r.Success {
		t.Errorf("bravo = %+v, want failure", r)
	}
	if r := byID["charlie"]; !r.Success || r.PlayerCount != 12 {
		t.Errorf("charlie = %+v, want success with count 12", r)
	}
}

// TestCollectAllConcurrent holds every probe at a barrier that only opens once
// all of them have started. Sequential execution would trip the per-probe
// timeout instead.
func TestCollectAllConcurrent(t *testing.T) {
	const n = 8

	var started sync.WaitGroup
	started.Add(n)
	release := make(chan struct{})
	go func() {
		started.Wait()
		close(release)
	}()

	client := &fakeStatusClient{
		statusFn: func(ctx context.Context, host string, port int) (*mcping.StatusResponse, error) {
			started.Done()
			select {
			case <-release:
				return &mcping.StatusResponse{Players: mcping.Players{Online: 1}}, nil
			case <-time.After(2 * time.Second):
				return nil, errors.New("barrier timeout: probes did not run concurrently")
			}
		},
	}

	servers := make([]models.Server, n)
	for i := range servers {
		servers[i] = testServer(string(rune('a' + i)))
	}

	results := NewCollector(NewProber(client)).CollectAll(context.Background(), servers)
	for _, r := range results {
		if !r.Success {
			t.Fatalf("probe for %q failed; fan-out is not concurrent", r.ServerID)
		}
	}
}

func TestCollectAllEmpty(t *testing.T) {
	client := &fakeStatusClient{
		statusFn: func(ctx context.Context, host string, port int) (*mcping.StatusResponse, error) {
			t.Error("Status called with no targets configured")
			return nil, errors.New("unexpected call")
		},
	}

	results := NewCollector(NewProber(client)).CollectAll(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

// Every target is probed with its own address, not a neighbor's.
func TestCollectAllAddressing(t *testing.T) {
	var mu sync.Mutex
	probed := make(map[string]int)

	client := &fakeStatusClient{
		statusFn: func(ctx context.Context, host string, port int) (*mcping.StatusResponse, error) {
			mu.Lock()
			probed[host] = port
			mu.Unlock()
			return &mcping.StatusResponse{}, nil
		},
	}

	servers := []models.Server{testServer("alpha"), testServer("bravo")}
	servers[1].Port = 25570
	NewCollector(NewProber(client)).CollectAll(context.Background(), servers)

	if len(probed) != 2 {
		t.Fatalf("probed %d hosts, want 2: %v", len(probed), probed)
	}
	for host, port := range probed {
		if strings.HasPrefix(host, "bravo") && port != 25570 {
			t.Errorf("bravo probed on port %d, want 25570", port)
		}
		if strings.HasPrefix(host, "alpha") && port != 25565 {
			t.Errorf("alpha probed on port %d, want 25565", port)
		}
	}
}
