// Package trace logs every request once it completes and records its
// latency in Prometheus.
package trace

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	applog "expensetracker/internal/log"
	"expensetracker/internal/metrics"
)

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(extractIP func(*http.Request) string) *Middleware {
	return &Middleware{extractIP: extractIP}
}

// Handler wraps next. It expects chi's RequestID and the request logger to
// be installed earlier in the chain.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPLatency.WithLabelValues(r.Method).Observe(elapsed.Seconds())

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}
		applog.LogHTTPEnd(r.Context(), r, status, elapsed.Milliseconds(), clientIP)
	})
}

// RequestID returns the id chi assigned to r, for log correlation.
func RequestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
