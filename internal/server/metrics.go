package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus instruments.
type Metrics struct {
	Recommendations   *prometheus.CounterVec
	RecommendDuration prometheus.Histogram
	NarrativeSource   *prometheus.CounterVec
}

// NewMetrics registers the instruments on reg. Pass a fresh registry in
// tests to avoid duplicate-registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Recommendations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cropadvisor_recommendations_total",
			Help: "Recommendation requests by outcome.",
		}, []string{"outcome"}),
		RecommendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cropadvisor_recommend_duration_seconds",
			Help:    "End-to-end recommendation latency.",
			Buckets: prometheus.DefBuckets,
		}),
		NarrativeSource: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cropadvisor_narrative_total",
			Help: "Narratives produced by source (model or template).",
		}, []string{"source"}),
	}
}
