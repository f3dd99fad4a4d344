package http

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type apiMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
}

// Collectors register against the default registry exactly once, so
// every Server instance shares them.
var sharedMetrics = sync.OnceValue(newAPIMetrics)

func newAPIMetrics() *apiMetrics {
	return &apiMetrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payme_http_requests_total",
			Help: "HTTP requests by method, path pattern and status code.",
		}, []string{"method", "path", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payme_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		rateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payme_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
}

func (s *Server) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = r.URL.Path
		}
		s.metrics.requestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rw.status)).Inc()
		s.metrics.requestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	}
}
