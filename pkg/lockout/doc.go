// Package lockout tracks consecutive failed login attempts per identity and
// temporarily locks identities that exceed the failure threshold.
//
// # Policy
//
// Five consecutive failures (configurable) lock the email for fifteen
// minutes (configurable). While locked, every further attempt is denied and
// re-arms the lock to a full duration from that attempt, so hammering a
// locked account keeps it locked. Attempts made during the lock window do
// not increment the failure count. A single successful login deletes the
// record entirely. Once a lock has been served to expiry the record is also
// reset, so the account returns with a fresh failure budget instead of
// sitting one attempt from re-locking.
//
// # Usage
//
// The login endpoint gates credential verification with Check, records
// outcomes with RecordFailure and Clear:
//
//	decision, err := tracker.Check(ctx, email)
//	if err != nil {
//		// store failure; fail closed on auth endpoints
//	}
//	if !decision.Allowed {
//		// respond with decision.LockUntil; safe to show the user
//	}
//
//	if credentialsValid {
//		_ = tracker.Clear(ctx, email)     // mandatory, resets the counter
//	} else {
//		_ = tracker.RecordFailure(ctx, email)
//	}
//
// # Why not the rate limiter
//
// Lockout is identity-keyed and policy-asymmetric: failures count,
// successes reset. Rate limiting is endpoint/IP-keyed and symmetric: every
// call counts. Conflating them either under-protects against distributed
// brute force (many IPs, one account) or over-penalizes legitimate retry
// traffic. Use both on login endpoints.
//
// # Storage
//
// MemoryStore keeps records in a mutex-guarded map for single-process
// deployments. RedisStore shares records across processes with atomic
// HINCRBY increments. Both self-correct expired locks on next access.
package lockout
