package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/calbyte/sessiongraph/internal/api/response"
	"github.com/calbyte/sessiongraph/internal/repository/redis"
)

// RateLimitMiddleware throttles requests per client IP using Redis.
type RateLimitMiddleware struct {
	limiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a rate limit middleware. A nil limiter
// disables throttling.
func NewRateLimitMiddleware(limiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit enforces the per-IP request budget.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, remaining, resetTime, err := m.limiter.Allow(r.Context(), r.RemoteAddr)
		if err != nil {
			// Redis trouble never blocks traffic.
			log.Warn().Err(err).Msg("rate limit check failed")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

		if !allowed {
			response.TooManyRequests(w, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
