package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for voice capture.
type Metrics struct {
	Captures *prometheus.CounterVec
	Outcomes *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Captures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yojanamitra_voice_captures_total",
			Help: "Capture start attempts by target field and result",
		}, []string{"target", "result"}), // result: "started", "unsupported", "failed"
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yojanamitra_voice_capture_outcomes_total",
			Help: "How captures finished",
		}, []string{"outcome"}), // outcome: "transcript", "error", "ended"
	}
}

func (m *Metrics) IncrementCapture(target, result string) {
	if m != nil {
		m.Captures.WithLabelValues(target, result).Inc()
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome).Inc()
	}
}
