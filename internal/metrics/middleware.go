package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/caselookup/internal/domain/search/scope"
)

const searchRoute = "/search"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "caselookup",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route and search scope",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status", "scope"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and search scope",
		},
		[]string{"method", "route", "status", "scope"},
	)

	// AuthRejectionsTotal counts requests refused by the API key check.
	AuthRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caselookup",
			Name:      "http_auth_rejections_total",
			Help:      "Requests rejected by API key authentication",
		},
		[]string{"reason"}, // missing, scheme, invalid_key
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(AuthRejectionsTotal)
}

// Middleware records request duration and count per chi route pattern.
// Search requests are also labelled with the requested scope, so local,
// online and merged searches can be told apart.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			route := routeLabel(r)
			labels := []string{
				r.Method,
				route,
				strconv.Itoa(ww.status),
				scopeLabel(route, r.URL.Query().Get("scope")),
			}
			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// routeLabel keeps case ids out of labels; requests no route matched share one value.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched"
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return "unmatched"
}

// scopeLabel is empty outside the search route. An omitted scope searches
// both sources; anything unknown is folded into "invalid".
func scopeLabel(route, raw string) string {
	if route != searchRoute {
		return ""
	}
	if raw == "" {
		return string(scope.Both)
	}
	if s := scope.Scope(raw); s.IsValid() {
		return raw
	}
	return "invalid"
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}
