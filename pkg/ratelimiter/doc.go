// Package ratelimiter provides fixed-window rate limiting with pluggable
// storage backends.
//
// A fixed window counts requests per key within a window of configurable
// length. The first request for a key (or the first after the stored window
// elapses) starts a fresh window with count 1; every subsequent request
// increments the counter. Exactly Limit requests are allowed per window and
// the next one is denied, with the seconds remaining until the window end
// reported to the caller.
//
// # Core Types
//
// Limiter enforces a policy over a Store:
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, err := ratelimiter.New(store, ratelimiter.Config{
//		Limit:  10,
//		Window: time.Minute,
//	})
//
//	result, err := limiter.Allow(ctx, "ip:203.0.113.7:/login")
//	if err != nil {
//		// store failure; fail closed on auth endpoints
//	}
//	if !result.Allowed {
//		retryAfter := result.RetryAfter()
//		// respond 429 with Retry-After
//	}
//
// # Storage Backends
//
// MemoryStore keeps counters in a mutex-guarded map with an optional
// background sweep of expired windows (Start/Stop, or Run for errgroup
// lifecycles). Counters are process-local.
//
// RedisStore keeps counters in Redis with an atomic INCR+PEXPIRE script,
// sharing enforcement across processes. The Store interface isolates the
// choice from call sites, so a deployment can move from single-process to
// clustered without touching callers.
//
// # Atomicity
//
// Store.Incr is an atomic increment-and-check: concurrent requests for the
// same key always observe distinct counts. The memory store does the full
// read-modify-write under its lock; the Redis store runs a server-side
// script.
//
// # Relation to lockout
//
// This limiter is endpoint/IP-keyed and symmetric: every call counts.
// Identity-keyed, policy-asymmetric brute-force protection (failures count,
// successes reset) lives in pkg/lockout; conflating the two either
// under-protects against distributed brute force or over-penalizes
// legitimate retries.
package ratelimiter
