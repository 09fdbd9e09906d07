package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/hackdayhq/authkit/pkg/clientip"
	"github.com/hackdayhq/authkit/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Limiter is the rate limiting implementation to use.
	Limiter *ratelimiter.Limiter
	// KeyExtractor derives the counting key from the request
	// (default: client IP + path, so limits apply per endpoint).
	KeyExtractor func(r *http.Request) string
	// SetHeaders includes X-RateLimit-* information in responses.
	SetHeaders bool
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
}

// RateLimit enforces a fixed-window request limit per key. Requests over
// the limit get 429 with a Retry-After header; the window boundary resets
// the count in full.
//
// A store failure fails open: availability of the platform outranks
// precision of the limit, and the lockout tracker still guards
// credential abuse independently.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}

	keyFn := cfg.KeyExtractor
	if keyFn == nil {
		keyFn = func(r *http.Request) string {
			return clientip.GetIP(r) + ":" + r.URL.Path
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			result, err := cfg.Limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.SetHeaders {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limiter.Limit()))
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			}

			if !result.Allowed {
				retryAfter := int(math.Ceil(result.RetryAfter().Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
