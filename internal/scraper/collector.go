// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package scraper

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/craftwatch/craftwatch/internal/models"
)

// Collector fans the Prober out across all configured servers concurrently.
// Target counts are tens, not thousands, so one goroutine per target needs no
// pooling or throttling.
type Collector struct {
	prober *Prober
}

// NewCollector creates a Collector around the given Prober.
func NewCollector(prober *Prober) *Collector {
	return &Collector{prober: prober}
}

// CollectAll probes every server concurrently and waits for all probes to
// finish before returning. Exactly one result is returned per server; the
// order of results carries no meaning. Probes never return errors (the Prober
// converts failures to values), so no probe's failure cancels its siblings.
func (c *Collector) CollectAll(ctx context.Context, servers []models.Server) []models.ProbeResult {
	results := make([]models.ProbeResult, len(servers))

	g, ctx := errgroup.WithContext(ctx)
	for i, srv := range servers {
		i, srv := i, srv
		g.Go(func() error {
			results[i] = c.prober.Probe(ctx, srv)
			return nil
		})
	}
	// Wait cannot fail: probes only produce values.
	_ = g.Wait()

	return results
}
