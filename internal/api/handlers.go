// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Package api serves the read-only HTTP API over the persisted scrape data.
package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/craftwatch/craftwatch/internal/config"
	"github.com/craftwatch/craftwatch/internal/database"
	"github.com/craftwatch/craftwatch/internal/models"
)

// version reported by the info and health endpoints.
const version = "1.0.0"

var errInvalidPeriod = errors.New("period must be a positive number of days within the configured maximum")

// Handler carries the dependencies of all API handlers.
type Handler struct {
	db        *database.DB
	cfg       *config.Config
	startTime time.Time
}

// NewHandler creates the API handler set.
func NewHandler(db *database.DB, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// Root reports service identity.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]string{
		"service": "craftwatch",
		"message": "Minecraft Server Monitor API",
		"version": version,
	}, 0)
}

// Health reports liveness and database connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	httpStatus := http.StatusOK
	if !dbConnected {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respondJSON(w, httpStatus, &models.APIResponse{
		Status: "ok",
		Data: models.HealthStatus{
			Status:            status,
			Version:           version,
			DatabaseConnected: dbConnected,
			UptimeSeconds:     int64(time.Since(h.startTime).Seconds()),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// Servers lists all monitored servers.
func (h *Handler) Servers(w http.ResponseWriter, r *http.Request) {
	servers, err := h.db.ListServers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list servers", err)
		return
	}
	if servers == nil {
		servers = []models.Server{}
	}
	respondData(w, servers, len(servers))
}

// Stats returns min/max/avg player counts and the snapshot count for one
// server over the requested period.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	srv, period, ok := h.serverAndPeriod(w, r)
	if !ok {
		return
	}

	start, end := periodWindow(period)
	stats, err := h.db.GetServerStats(r.Context(), srv.ID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute stats", err)
		return
	}

	stats.ServerName = srv.Name
	stats.PeriodDays = period
	stats.AvgPlayers = math.Round(stats.AvgPlayers*100) / 100
	respondData(w, stats, stats.TotalSnapshots)
}

// serverAndPeriod resolves the {serverID} route param and the period query
// param, writing the error response itself when either is invalid.
func (h *Handler) serverAndPeriod(w http.ResponseWriter, r *http.Request) (*models.Server, int, bool) {
	period, err := h.periodDays(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PERIOD", err.Error(), nil)
		return nil, 0, false
	}

	serverID := chi.URLParam(r, "serverID")
	srv, err := h.db.GetServer(r.Context(), serverID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "SERVER_NOT_FOUND",
			fmt.Sprintf("Server %q not found", serverID), nil)
		return nil, 0, false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to look up server", err)
		return nil, 0, false
	}
	return srv, period, true
}
