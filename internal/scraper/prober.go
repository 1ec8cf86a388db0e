// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package scraper

import (
	"context"
	"time"

	"github.com/craftwatch/craftwatch/internal/logging"
	"github.com/craftwatch/craftwatch/internal/mcping"
	"github.com/craftwatch/craftwatch/internal/metrics"
	"github.com/craftwatch/craftwatch/internal/models"
)

// StatusClient queries one Minecraft server for its current status.
// *mcping.Client satisfies it; tests substitute fakes.
type StatusClient interface {
	Status(ctx context.Context, host string, port int) (*mcping.StatusResponse, error)
}

// Prober performs one status query per server and converts every failure into
// a ProbeResult with Success=false. Errors never cross this boundary, so one
// bad server can never abort the fan-out.
type Prober struct {
	client StatusClient
}

// NewProber creates a Prober using the given status client.
func NewProber(client StatusClient) *Prober {
	return &Prober{client: client}
}

// Probe queries one server. No retries; the next cycle is the retry.
func (p *Prober) Probe(ctx context.Context, srv models.Server) models.ProbeResult {
	start := time.Now()
	status, err := p.client.Status(ctx, srv.IP, srv.Port)
	metrics.RecordProbe(srv.ID, err == nil, time.Since(start))

	if err != nil {
		logging.Warn().Err(err).
			Str("server", srv.ID).
			Str("address", srv.IP).
			Int("port", srv.Port).
			Msg("Probe failed")
		return models.ProbeResult{ServerID: srv.ID, Success: false}
	}

	// The sample list is optional and may carry empty names; keep only real
	// identities.
	var players []string
	for _, info := range status.Players.Sample {
		if info.Name != "" {
			players = append(players, info.Name)
		}
	}

	logging.Debug().
		Str("server", srv.ID).
		Int("online", status.Players.Online).
		Int("sampled", len(players)).
		Msg("Probe complete")

	return models.ProbeResult{
		ServerID:    srv.ID,
		PlayerCount: status.Players.Online,
		Players:     players,
		Success:     true,
	}
}
