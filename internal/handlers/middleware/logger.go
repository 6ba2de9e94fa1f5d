package middleware

import (
	"net/http"
	"time"

	"github.com/nkiryanov/favours/internal/handlers/render"
)

type logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Response writer that remembers status and size of response
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) Write(p []byte) (int, error) {
	size, err := w.ResponseWriter.Write(p)
	w.size += size
	return size, err
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.status = statusCode
}

// Let http.ResponseController reach the original writer
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LoggerMiddleware writes one line per request.
// Panics in handlers are logged and answered with 500
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					l.Error("handler panicked", "method", r.Method, "uri", r.RequestURI, "panic", p)
					render.ServiceError(sw, "Server ran into unexpected errors.", http.StatusInternalServerError)
				}

				l.Info(
					"got HTTP request",
					"method", r.Method,
					"uri", r.RequestURI,
					"duration", time.Since(start),
					"status", sw.status,
					"size", sw.size,
				)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
