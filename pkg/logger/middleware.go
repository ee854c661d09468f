package logger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/screwyprof/vesting/pkg/httpkit"
)

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytesOut   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.bytesOut += size
	return size, err
}

// NewMiddleware creates HTTP request logging middleware. Server errors log
// at error level, rejected requests at warn level.
func NewMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Ensure error tracking context exists (in case httpkit.HandlerFunc wasn't used)
			r = r.WithContext(httpkit.WithErrorTracking(r.Context()))

			bytesIn := max(0, int(r.ContentLength))

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // Default to 200 if WriteHeader is never called
			}

			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				level = slog.LevelError
			case rw.statusCode >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("uri", r.RequestURI),
				slog.Int("status", rw.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes_in", bytesIn),
				slog.Int("bytes_out", rw.bytesOut),
			}

			if sender := r.Header.Get(httpkit.SenderHeader); sender != "" {
				attrs = append(attrs, slog.String("sender", sender))
			}

			if err := httpkit.Error(r.Context()); err != nil {
				attrs = append(attrs, slog.String("error", errorMessage(err)))
			}

			logger.LogAttrs(r.Context(), level, "HTTP", attrs...)
		})
	}
}

// errorMessage extracts the appropriate error message for logging
func errorMessage(err error) string {
	if httpErr, ok := err.(httpkit.HTTPError); ok {
		return httpErr.Cause().Error() // detailed error for logs
	}
	return err.Error()
}
