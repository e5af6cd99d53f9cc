package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zenazn/goji/web/mutil"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "Count of HTTP requests served, by method and status.",
	},
	[]string{"method", "status"},
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Latency of HTTP requests served.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method"},
)

type middleware struct {
	http.Handler
}

// ServeHTTP handles incoming HTTP requests and records request metrics.
func (m middleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	start := time.Now()
	wp := mutil.WrapWriter(w)

	m.Handler.ServeHTTP(wp, r)

	if wp.Status() == 0 {
		wp.WriteHeader(http.StatusOK)
	}
	requestsTotal.WithLabelValues(
		r.Method, strconv.Itoa(wp.Status())).Inc()
	requestDuration.WithLabelValues(
		r.Method).Observe(time.Since(start).Seconds())
}

// Middleware that records Prometheus metrics for each request.
func Middleware(h http.Handler) http.Handler {
	return middleware{h}
}

// Handler returns the handler exposing the metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
