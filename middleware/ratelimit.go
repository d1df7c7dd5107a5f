package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/rollcall/pkg/clientip"
	"github.com/dmitrymomot/rollcall/pkg/ratelimiter"
)

// RateLimit throttles requests per client IP using the given limiter. Limit
// state errors fail open so a degraded limiter store does not take claim
// submission down with it.
func RateLimit(limiter ratelimiter.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := limiter.Allow(r.Context(), clientip.GetIP(r))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed() {
				retryAfter := max(time.Second, result.RetryAfter())
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"reason":"rate_limited","error":"rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
