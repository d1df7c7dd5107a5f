package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/rollcall/core/logger"
	"github.com/dmitrymomot/rollcall/pkg/clientip"
)

// Instrument receives per-request metrics from the logging middleware.
type Instrument interface {
	HTTPRequest(method, route, status string, seconds float64)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging emits one structured record per request and, when an instrument is
// provided, records latency and status metrics keyed by the chi route
// pattern rather than the raw path.
func Logging(log *slog.Logger, instrument Instrument) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			log.LogAttrs(r.Context(), levelFor(rec.status), "http request",
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", rec.status),
				slog.String("client_ip", clientip.GetIP(r)),
				logger.RequestID(GetRequestID(r.Context())),
				logger.Duration(elapsed),
			)

			if instrument != nil {
				class := strconv.Itoa(rec.status/100) + "xx"
				instrument.HTTPRequest(r.Method, route, class, elapsed.Seconds())
			}
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
