package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shoplens",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by winning strategy",
		},
		[]string{"strategy", "status"},
	)

	SearchRelaxationSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shoplens",
			Name:      "search_relaxation_steps",
			Help:      "Relaxation steps consumed per search",
			Buckets:   []float64{0, 1, 2, 3},
		},
	)

	SearchBestConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shoplens",
			Name:      "search_best_confidence",
			Help:      "Best candidate confidence per search",
			Buckets:   []float64{0.2, 0.4, 0.6, 0.7, 0.8, 0.9, 0.95},
		},
	)

	SearchLowConfidenceTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shoplens",
			Name:      "search_low_confidence_total",
			Help:      "Searches that exhausted relaxation and returned low-confidence results",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRelaxationSteps)
	prometheus.MustRegister(SearchBestConfidence)
	prometheus.MustRegister(SearchLowConfidenceTotal)
	searchMetricsRegistered = true
}
