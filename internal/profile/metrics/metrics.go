package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for profile onboarding and edits.
type Metrics struct {
	Onboardings *prometheus.CounterVec
	Saves       prometheus.Counter
	Completion  prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Onboardings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yojanamitra_profile_onboardings_total",
			Help: "Onboarding submissions by outcome",
		}, []string{"outcome"}), // outcome: "created", "incomplete"
		Saves: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yojanamitra_profile_saves_total",
			Help: "Explicit profile saves",
		}),
		Completion: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "yojanamitra_profile_completion_percent",
			Help:    "Profile completion observed after each write",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
	}
}

func (m *Metrics) IncrementOnboarding(outcome string) {
	if m != nil {
		m.Onboardings.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementSaves() {
	if m != nil {
		m.Saves.Inc()
	}
}

func (m *Metrics) ObserveCompletion(percent int) {
	if m != nil {
		m.Completion.Observe(float64(percent))
	}
}
