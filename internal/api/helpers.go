// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/craftwatch/craftwatch/internal/logging"
	"github.com/craftwatch/craftwatch/internal/models"
)

// respondJSON sends an enveloped JSON response.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData wraps data in the standard envelope.
func respondData(w http.ResponseWriter, data interface{}, count int) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "ok",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			Count:     count,
		},
	})
}

// respondError sends an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Err(err).Str("code", code).Msg("API error")
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}

// periodDays parses and bounds the "period" query parameter (days of history).
func (h *Handler) periodDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return h.cfg.API.DefaultPeriodDays, nil
	}
	period, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errInvalidPeriod
	}
	if period < 1 || period > h.cfg.API.MaxPeriodDays {
		return 0, errInvalidPeriod
	}
	return period, nil
}

// periodWindow converts a period in days into a [start, end] window ending now.
func periodWindow(period int) (time.Time, time.Time) {
	end := time.Now().UTC()
	return end.AddDate(0, 0, -period), end
}
