// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package api

import (
	"bytes"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/craftwatch/craftwatch/internal/models"
)

const (
	chartWidth  = 1200
	chartHeight = 600
)

// renderChart draws the player-count line chart for one server as PNG.
// Snapshots must be non-empty and ordered by timestamp ascending.
func renderChart(srv *models.Server, snapshots []models.PlayerCountSnapshot, period int) ([]byte, error) {
	times := make([]time.Time, 0, len(snapshots))
	counts := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		times = append(times, s.Timestamp)
		counts = append(counts, float64(s.PlayerCount))
	}

	// go-chart rejects a zero-width x-range, which a single snapshot
	// produces; widen it by a flat minute.
	if len(times) == 1 {
		times = append(times, times[0].Add(time.Minute))
		counts = append(counts, counts[0])
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - Player Count (%d days)", srv.Name, period),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Date/Time",
			ValueFormatter: xAxisFormatter(period),
		},
		YAxis: chart.YAxis{
			Name: "Number of Players",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    srv.Name,
				XValues: times,
				YValues: counts,
				Style: chart.Style{
					StrokeWidth: 2.0,
					DotWidth:    3.0,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// xAxisFormatter picks a timestamp format by window size: hours matter for a
// week, dates suffice beyond it.
func xAxisFormatter(period int) chart.ValueFormatter {
	if period <= 7 {
		return chart.TimeValueFormatterWithFormat("01/02 15:04")
	}
	return chart.TimeValueFormatterWithFormat("01/02")
}
