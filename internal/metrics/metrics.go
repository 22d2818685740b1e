// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	FlightAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_api_requests_total",
			Help: "Calls to the upstream flight API by result",
		},
		[]string{"result"}, // ok, error, rejected
	)

	FlightAPIDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flight_api_duration_seconds",
			Help:    "Upstream flight API call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	FlightCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_cache_requests_total",
			Help: "Flight lookup cache requests by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	WatchlistOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchlist_operations_total",
			Help: "Watchlist operations by kind and result",
		},
		[]string{"op", "result"},
	)
)

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
