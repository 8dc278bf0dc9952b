package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/flashforge/flashforge-api/internal/api/shared"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"github.com/flashforge/flashforge-api/internal/platform/redis"
	"github.com/flashforge/flashforge-api/internal/redact"
)

// Limiter counts a request against key.
type Limiter interface {
	Allow(ctx context.Context, key string) (redis.Result, error)
}

// RateLimit caps requests per account, or per client address for requests
// that carry no account. Limiter failures let the request through.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.FromContext(r.Context()).WarnContext(r.Context(), "rate limiter unavailable, allowing request",
					slog.String("error", redact.Error(err)))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				retryAfter := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if id, ok := shared.AccountIDFromContext(r.Context()); ok {
		return "account:" + id.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
