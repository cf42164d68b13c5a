package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "bridge-test")

	m.ObserveHTTPRequest("POST", "/get-free-slots", 200, 15*time.Millisecond)
	m.ObserveUpstreamCall("free_slots", "2xx", 120*time.Millisecond)
	m.ObserveUpstreamCall("free_slots", "5xx", 80*time.Millisecond)
	m.ObserveSlotDecision("allowed")
	m.ObserveSlotDecision("rejected")
	m.ObserveSlotDecision("rejected")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/get-free-slots", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("free_slots", "5xx")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotDecisions.WithLabelValues("rejected")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
	m.ObserveUpstreamCall("upsert_contact", "transport", time.Millisecond)
	m.ObserveSlotDecision("allowed")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(201))
	assert.Equal(t, "3xx", StatusClass(304))
	assert.Equal(t, "4xx", StatusClass(422))
	assert.Equal(t, "5xx", StatusClass(503))
	assert.Equal(t, "transport", StatusClass(0))
}
