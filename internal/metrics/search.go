package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "search_queries_total",
			Help:      "Total number of executed search queries",
		},
		[]string{"scope", "trigger"}, // trigger: start/filter/debounce/page
	)

	SearchStaleDiscardsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "search_stale_discards_total",
			Help:      "Search responses dropped because a newer query was issued",
		},
	)

	SearchDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "search_degraded_total",
			Help:      "Remote searches that degraded to an empty result",
		},
		[]string{"reason"},
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "caselookup",
			Name:      "search_results_returned",
			Help:      "Rows in a displayed search window",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchStaleDiscardsTotal)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchResultsReturned)
	searchMetricsRegistered = true
}
