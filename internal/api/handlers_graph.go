// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package api

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/craftwatch/craftwatch/internal/logging"
	"github.com/craftwatch/craftwatch/internal/models"
)

//go:embed templates/graph.html
var templateFS embed.FS

var graphTemplate = template.Must(template.ParseFS(templateFS, "templates/graph.html"))

// graphPageData feeds the graph HTML template.
type graphPageData struct {
	Server      *models.Server
	Period      int
	DataPoints  int
	LastUpdated string
	ImageBase64 string
}

// Graph renders an HTML page with the player-count chart embedded as a
// base64 PNG.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	srv, period, snapshots, ok := h.graphData(w, r)
	if !ok {
		return
	}

	png, err := renderChart(srv, snapshots, period)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CHART_ERROR", "Failed to render chart", err)
		return
	}

	data := graphPageData{
		Server:      srv,
		Period:      period,
		DataPoints:  len(snapshots),
		LastUpdated: time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
		ImageBase64: base64.StdEncoding.EncodeToString(png),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := graphTemplate.Execute(w, data); err != nil {
		logging.Error().Err(err).Msg("Failed to execute graph template")
	}
}

// GraphImage returns just the chart PNG, for embedding in other pages.
func (h *Handler) GraphImage(w http.ResponseWriter, r *http.Request) {
	srv, period, snapshots, ok := h.graphData(w, r)
	if !ok {
		return
	}

	png, err := renderChart(srv, snapshots, period)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CHART_ERROR", "Failed to render chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		logging.Error().Err(err).Msg("Failed to write chart image")
	}
}

// graphData resolves the server, period and snapshot window for the graph
// endpoints. An empty window is a 404, matching the listing semantics rather
// than rendering an empty chart.
func (h *Handler) graphData(w http.ResponseWriter, r *http.Request) (*models.Server, int, []models.PlayerCountSnapshot, bool) {
	srv, period, ok := h.serverAndPeriod(w, r)
	if !ok {
		return nil, 0, nil, false
	}

	start, end := periodWindow(period)
	snapshots, err := h.db.GetPlayerCounts(r.Context(), srv.ID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load player counts", err)
		return nil, 0, nil, false
	}
	if len(snapshots) == 0 {
		respondError(w, http.StatusNotFound, "NO_DATA",
			fmt.Sprintf("No data found for server %q in the last %d days", srv.ID, period), nil)
		return nil, 0, nil, false
	}
	return srv, period, snapshots, true
}
