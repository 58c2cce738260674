package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequestMetrics counts and times every request by its route pattern and
// writes one log line per request. It must wrap the ServeMux directly so the
// matched pattern is visible after the handler returns.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
		log.Printf("http: %s %s %d %s", r.Method, r.URL.Path, rec.status, elapsed.Round(time.Millisecond))
	})
}
