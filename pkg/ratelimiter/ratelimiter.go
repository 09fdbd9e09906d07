package ratelimiter

import (
	"context"
	"errors"
	"time"
)

// Store persists fixed-window request counters. Implementations must make
// Incr atomic with respect to concurrent calls for the same key: two
// concurrent requests must never observe the same count.
type Store interface {
	// Incr increments the counter for key within the current window and
	// returns the post-increment count and the window end. When no window
	// exists, or the stored window has elapsed, a fresh window starts with
	// count 1.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)

	// Reset removes the counter for key, starting the next call from a
	// fresh window. Intended for administrative overrides.
	Reset(ctx context.Context, key string) error
}

// Config defines a fixed-window rate limit policy.
type Config struct {
	Limit  int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// DefaultConfig returns a policy suitable for authentication endpoints.
func DefaultConfig() Config {
	return Config{Limit: 10, Window: time.Minute}
}

// Result reports the outcome of a rate-limit check.
type Result struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// RetryAfter returns how long the caller must wait before the window
// resets. Zero when the request was allowed.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	if d := time.Until(r.ResetAt); d > 0 {
		return d
	}
	// The window expired between the store call and now; the next attempt
	// will start a fresh window.
	return time.Second
}

// Limiter enforces a fixed-window rate limit over a pluggable store.
// Swapping MemoryStore for RedisStore moves enforcement process-wide to
// cluster-wide without changing call sites.
type Limiter struct {
	store  Store
	config Config
}

// New creates a limiter with the given store and policy.
func New(store Store, config Config) (*Limiter, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is required"))
	}
	if config.Limit <= 0 || config.Window <= 0 {
		return nil, errors.Join(ErrInvalidConfig, errors.New("limit and window must be positive"))
	}

	return &Limiter{store: store, config: config}, nil
}

// Allow records one request for key and reports whether it fits the
// window. Exactly Limit requests are allowed per window; the next one is
// denied with a positive RetryAfter until the window elapses.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Incr(ctx, key, l.config.Window)
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}

	remaining := int64(l.config.Limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(l.config.Limit),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

// Limit returns the configured per-window request limit.
func (l *Limiter) Limit() int {
	return l.config.Limit
}
