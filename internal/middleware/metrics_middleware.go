package middleware

import (
	"net/http"
	"strconv"
	"time"

	"aguada-backend/internal/metrics"
)

// MetricsMiddleware records request counts and latency. Every ledger
// call goes through /api/relatorios?action=..., so the action query
// parameter is the meaningful label; requests without one are the
// legacy default (list) or non-dispatched routes labelled by path.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(wrapped, r)

		action := r.URL.Query().Get("action")
		if action == "" {
			action = r.URL.Path
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method,
			action,
			strconv.Itoa(wrapped.statusCode),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method,
			action,
		).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder captures the status code written downstream.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
