package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for catalog search and apply.
type Metrics struct {
	Searches      *prometheus.CounterVec
	SearchResults prometheus.Histogram
	Applies       *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Searches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yojanamitra_scheme_searches_total",
			Help: "Catalog searches by category filter",
		}, []string{"category"}),
		SearchResults: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "yojanamitra_scheme_search_results",
			Help:    "Number of schemes returned per search",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
		}),
		Applies: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yojanamitra_scheme_applies_total",
			Help: "Apply attempts by outcome",
		}, []string{"outcome"}), // outcome: "selected", "not_eligible"
	}
}

func (m *Metrics) ObserveSearch(category string, results int) {
	if m != nil {
		m.Searches.WithLabelValues(category).Inc()
		m.SearchResults.Observe(float64(results))
	}
}

func (m *Metrics) IncrementApply(outcome string) {
	if m != nil {
		m.Applies.WithLabelValues(outcome).Inc()
	}
}
