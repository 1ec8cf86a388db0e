// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Package metrics registers the Prometheus collectors for Craftwatch:
// scrape cycle outcomes and durations, per-probe outcomes and durations,
// snapshot write counts, and HTTP request instrumentation for the read API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScrapeCyclesTotal counts completed cycles by outcome:
	// "success", "failure", "lock_contention".
	ScrapeCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftwatch_scrape_cycles_total",
			Help: "Total number of scrape cycles by outcome",
		},
		[]string{"outcome"},
	)

	// ScrapeCycleDuration observes full cycle duration (lock to release).
	ScrapeCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "craftwatch_scrape_cycle_duration_seconds",
			Help:    "Duration of scrape cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ProbesTotal counts probes by server and outcome ("success", "failure").
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftwatch_probes_total",
			Help: "Total number of server probes by outcome",
		},
		[]string{"server", "outcome"},
	)

	// ProbeDuration observes one status query per server.
	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "craftwatch_probe_duration_seconds",
			Help:    "Duration of server status probes in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"server"},
	)

	// SnapshotsWritten counts persisted player-count snapshots.
	SnapshotsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "craftwatch_snapshots_written_total",
			Help: "Total number of player count snapshots persisted",
		},
	)

	// HTTPRequestsTotal counts API requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftwatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes API request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "craftwatch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordProbe records one probe outcome and its duration.
func RecordProbe(serverID string, success bool, elapsed time.Duration) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	ProbesTotal.WithLabelValues(serverID, outcome).Inc()
	ProbeDuration.WithLabelValues(serverID).Observe(elapsed.Seconds())
}

// RecordHTTPRequest records one API request.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
