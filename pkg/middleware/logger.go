package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const slowRequestThreshold = 2 * time.Second

// statusRecorder remembers what the handler wrote so the access log
// can report it after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.size += n
	return n, err
}

// Logger is the access-log middleware. Slow requests are promoted to Warn.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.size),
				zap.Duration("elapsed", elapsed),
				zap.String("remote", r.RemoteAddr),
			}

			if elapsed > slowRequestThreshold {
				logger.Warn("slow request", fields...)
				return
			}
			logger.Info("request", fields...)
		})
	}
}
