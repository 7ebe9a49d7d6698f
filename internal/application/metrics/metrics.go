package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application tracker.
type Metrics struct {
	Submissions *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Seeded      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yojanamitra_application_submissions_total",
			Help: "Application submissions by outcome",
		}, []string{"outcome"}), // outcome: "submitted", "no_selection", "duplicate"
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yojanamitra_application_transitions_total",
			Help: "Applied status transitions by target status",
		}, []string{"status"}),
		Seeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yojanamitra_application_sample_sessions_total",
			Help: "Sessions that received the sample applications",
		}),
	}
}

func (m *Metrics) IncrementSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncrementSeeded() {
	if m != nil {
		m.Seeded.Inc()
	}
}
