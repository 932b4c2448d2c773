// ABOUTME: HTTP request logging middleware.
// ABOUTME: Captures method, path, status, and duration, and stores them in the database.

package logging

import (
	"net/http"
	"strings"
	"time"

	"github.com/calwidget/calwidget/internal/store"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// SurfaceFromPath names the API surface a request belongs to for log
// aggregation.
func SurfaceFromPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/events"):
		return "events"
	case strings.HasPrefix(path, "/api/setup"):
		return "setup"
	case strings.HasPrefix(path, "/api/analyze"):
		return "analyze"
	case strings.HasPrefix(path, "/api/databases"):
		return "databases"
	case strings.HasPrefix(path, "/api/widgets"):
		return "widgets"
	case strings.HasPrefix(path, "/api/oembed"):
		return "oembed"
	default:
		return "unknown"
	}
}

// Middleware logs all HTTP requests to the database
func Middleware(s *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health checks would drown out the interesting traffic.
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Milliseconds()

			// Log to database (fire and forget)
			go s.LogRequest(&store.RequestLog{
				Surface:    SurfaceFromPath(r.URL.Path),
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: wrapped.statusCode,
				DurationMs: int(duration),
			})
		})
	}
}
