// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP routing tree for the read API.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)

	// Operational endpoints stay outside the rate limit so monitoring never
	// gets throttled out.
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(
			h.cfg.Server.RateLimitReqs,
			h.cfg.Server.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))

		r.Get("/", h.Root)
		r.Get("/servers", h.Servers)
		r.Get("/stats/{serverID}", h.Stats)
		r.Get("/graph/{serverID}", h.Graph)
		r.Get("/graph/{serverID}/image", h.GraphImage)
	})

	return r
}
