// Package metrics holds the Prometheus collectors shared by the planner.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled API requests.
	// Labels: method, route, status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmate",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration tracks request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mealmate",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// StoreOperations counts record store round trips after retries.
	// Labels: op (list, create, replace, patch, delete), result (success, error)
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmate",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of record store operations by result",
		},
		[]string{"op", "result"},
	)

	// StoreDuration tracks record store latency including retries.
	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mealmate",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of record store operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// StoreRetries counts retried record store attempts.
	StoreRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmate",
			Subsystem: "store",
			Name:      "retries_total",
			Help:      "Total number of retried record store attempts",
		},
		[]string{"op"},
	)

	// MealsInMemory is the size of the in-memory meal collection.
	MealsInMemory = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mealmate",
			Subsystem: "store",
			Name:      "meals",
			Help:      "Number of meals held by the meal store",
		},
	)
)

// ObserveStoreOp records the outcome of one record store operation.
func ObserveStoreOp(op string, err error, d time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(op, result).Inc()
	StoreDuration.WithLabelValues(op).Observe(d.Seconds())
}
