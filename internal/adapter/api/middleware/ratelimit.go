package middleware

import (
	"log/slog"
	"net/http"

	"github.com/V4T54L/matterlog/internal/adapter/metrics"
	"github.com/V4T54L/matterlog/internal/domain"
)

// RateLimit is a middleware factory that throttles requests per client IP.
// Limiter failures let the request through; searches are read-only.
func RateLimit(limiter domain.RateLimiter, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := limiter.Allow(r.Context(), ClientIP(r))
			if err != nil {
				logger.Error("rate limiter failed, allowing request", "error", err)
				ok = true
			}
			if !ok {
				if m != nil {
					m.RateLimited.Inc()
				}
				logger.Warn("search rate limit exceeded", "remote_addr", r.RemoteAddr)
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too many searches, slow down", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
