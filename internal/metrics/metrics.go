// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expensetracker"

var StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "store",
	Name:      "operations_total",
	Help:      "Record store calls by operation and outcome.",
}, []string{"op", "result"})

var StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "store",
	Name:      "operation_seconds",
	Help:      "Record store call latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"op"})

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests by method and status code.",
}, []string{"method", "status"})

var HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method"})

var RecordCache = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "record_cache",
	Name:      "lookups_total",
	Help:      "Per-user record list cache lookups by result (hit, miss, invalidate).",
}, []string{"result"})

var FormSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "form",
	Name:      "submissions_total",
	Help:      "Expense form submissions by outcome (invalid, success, failed).",
}, []string{"result"})

var ExportedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "export",
	Name:      "events_total",
	Help:      "Change events handled by the spreadsheet export worker.",
}, []string{"op", "result"})

// ObserveStore records the outcome and latency of one store call.
func ObserveStore(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(op, result).Inc()
	StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

var RateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "rate_limited_total",
	Help:      "Requests rejected by the per-client rate limiter.",
})

var SuspiciousRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "suspicious_requests_total",
	Help:      "Requests flagged by the security detector, by action taken.",
}, []string{"action"})
