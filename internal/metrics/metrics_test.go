// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordProbe(t *testing.T) {
	success := testutil.ToFloat64(ProbesTotal.WithLabelValues("metrics-test", "success"))
	failure := testutil.ToFloat64(ProbesTotal.WithLabelValues("metrics-test", "failure"))

	RecordProbe("metrics-test", true, 50*time.Millisecond)
	RecordProbe("metrics-test", false, 50*time.Millisecond)
	RecordProbe("metrics-test", false, 50*time.Millisecond)

	if got := testutil.ToFloat64(ProbesTotal.WithLabelValues("metrics-test", "success")); got != success+1 {
		t.Errorf("success counter = %v, want %v", got, success+1)
	}
	if got := testutil.ToFloat64(ProbesTotal.WithLabelValues("metrics-test", "failure")); got != failure+2 {
		t.Errorf("failure counter = %v, want %v", got, failure+2)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/metrics-test", "200"))

	RecordHTTPRequest("GET", "/metrics-test", 200, 5*time.Millisecond)

	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/metrics-test", "200")); got != before+1 {
		t.Errorf("request counter = %v, want %v", got, before+1)
	}
}
