package web

import (
	"net/http"
	"strconv"
	"summify/internal/metrics"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, routeLabel(r), strconv.Itoa(rec.status)).Inc()
		s.log.InfoContext(r.Context(), "HTTP request is handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"durationSeconds", time.Since(start).Seconds())
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}

// routeLabel keeps metric cardinality bounded for unknown paths.
func routeLabel(r *http.Request) string {
	switch r.URL.Path {
	case "/", "/summarize", "/healthz", "/metrics":
		return r.URL.Path
	default:
		return "other"
	}
}
