package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for verification sessions. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	// Sessions started and currently live
	SessionsStarted prometheus.Counter
	ActiveSessions  prometheus.Gauge

	// State transitions by target state and reason
	Transitions *prometheus.CounterVec

	LivenessSubmissions prometheus.Counter
	LivenessOutcomes    *prometheus.CounterVec

	MatchOutcomes *prometheus.CounterVec
	MatchLatency  prometheus.Histogram

	DocumentExtractions *prometheus.CounterVec

	// Events dropped because a subscriber fell behind
	EventsDropped prometheus.Counter
}

// New registers the verification metrics on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "kyc_verification_sessions_started_total",
			Help: "Total verification sessions started",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kyc_verification_sessions_active",
			Help: "Verification sessions holding a camera or awaiting a result",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_verification_transitions_total",
			Help: "State transitions by target state and reason",
		}, []string{"state", "reason"}),
		LivenessSubmissions: factory.NewCounter(prometheus.CounterOpts{
			Name: "kyc_liveness_frames_submitted_total",
			Help: "Frames accepted by the liveness classifier",
		}),
		LivenessOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_liveness_outcomes_total",
			Help: "Liveness probe resolutions by result",
		}, []string{"result"}), // result: "confirmed", "TIMEOUT", "SERVICE_ERROR"
		MatchOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_face_match_outcomes_total",
			Help: "Face match attempts by result",
		}, []string{"result"}),
		MatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_face_match_duration_seconds",
			Help:    "Duration of a face match including retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		DocumentExtractions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_document_extractions_total",
			Help: "Document extractions by purpose and result",
		}, []string{"purpose", "result"}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "kyc_verification_events_dropped_total",
			Help: "Events not delivered to a slow subscriber",
		}),
	}
}

func (m *Metrics) IncSessionStarted() {
	if m != nil {
		m.SessionsStarted.Inc()
		m.ActiveSessions.Inc()
	}
}

func (m *Metrics) DecActiveSessions() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}

func (m *Metrics) ObserveTransition(state, reason string) {
	if m != nil {
		if reason == "" {
			reason = "none"
		}
		m.Transitions.WithLabelValues(state, reason).Inc()
	}
}

func (m *Metrics) IncLivenessSubmission() {
	if m != nil {
		m.LivenessSubmissions.Inc()
	}
}

func (m *Metrics) IncLivenessOutcome(result string) {
	if m != nil {
		m.LivenessOutcomes.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveMatch(result string, d time.Duration) {
	if m != nil {
		m.MatchOutcomes.WithLabelValues(result).Inc()
		m.MatchLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncDocumentExtraction(purpose, result string) {
	if m != nil {
		m.DocumentExtractions.WithLabelValues(purpose, result).Inc()
	}
}

func (m *Metrics) IncEventsDropped() {
	if m != nil {
		m.EventsDropped.Inc()
	}
}
