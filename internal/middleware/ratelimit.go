// Package middleware holds the chi middleware for the public routes.
package middleware

import (
	"net/http"

	"github.com/shortenv/shortenv/internal/ratelimit"
	"github.com/shortenv/shortenv/internal/redirect"
	"go.uber.org/zap"
)

// RateLimit limits requests per client IP using the given limiter.
// A limiter store failure fails open: redirects keep working when the rate
// limit backend is down.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := redirect.ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limit check failed", zap.Error(err))
				next.ServeHTTP(w, r)

				return
			}

			if !allowed {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
