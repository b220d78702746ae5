package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncSessionStarted()
	m.IncSessionStarted()
	m.DecActiveSessions()
	m.ObserveTransition("FAILED", "PERMISSION_DENIED")
	m.ObserveTransition("CAMERA_STARTING", "")
	m.IncLivenessSubmission()
	m.IncLivenessOutcome("confirmed")
	m.ObserveMatch("verified", 150*time.Millisecond)
	m.IncDocumentExtraction("KYC", "extracted")
	m.IncEventsDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("FAILED", "PERMISSION_DENIED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("CAMERA_STARTING", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LivenessSubmissions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LivenessOutcomes.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchOutcomes.WithLabelValues("verified")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.MatchLatency))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentExtractions.WithLabelValues("KYC", "extracted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncSessionStarted()
		m.DecActiveSessions()
		m.ObserveTransition("IDLE", "")
		m.IncLivenessSubmission()
		m.IncLivenessOutcome("TIMEOUT")
		m.ObserveMatch("NO_MATCH", time.Second)
		m.IncDocumentExtraction("LEAD", "failed")
		m.IncEventsDropped()
	})
}
