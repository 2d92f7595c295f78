package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// responseWriter captures the status code and body size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// Logger writes one access line per request. Server errors log at warn.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.With(zap.String("middleware", "access"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", rw.statusCode),
				zap.Int("bytes", rw.bytesWritten),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", remoteHost(r)),
				zap.String("forwarded_for", r.Header.Get("X-Forwarded-For")),
				zap.String("user_agent", r.UserAgent()),
			}

			if rw.statusCode >= http.StatusInternalServerError {
				logger.Warn("HTTP request", fields...)
				return
			}
			logger.Info("HTTP request", fields...)
		})
	}
}
