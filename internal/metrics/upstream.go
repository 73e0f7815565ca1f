package metrics

import "github.com/prometheus/client_golang/prometheus"

// Case-law API Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "upstream_requests_total",
			Help:      "Total number of requests to the case-law API",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "caselookup",
			Name:      "upstream_request_duration_seconds",
			Help:      "Case-law API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	UpstreamRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "upstream_retries_total",
			Help:      "Total number of retried case-law API requests",
		},
		[]string{"endpoint"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "cache_total",
			Help:      "Document cache hits and misses",
		},
		[]string{"kind", "result"}, // kind: search/document/html/summary; result: hit/miss
	)

	SummaryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "summary_requests_total",
			Help:      "Total number of case summary requests",
		},
		[]string{"provider", "status"},
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers case-law API metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(UpstreamRetriesTotal)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(SummaryRequestsTotal)
	upstreamMetricsRegistered = true
}
