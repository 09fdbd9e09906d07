// Package csrf issues and validates per-session anti-forgery tokens with
// absolute expiry.
//
// # Model
//
// Each session gets one CSRF token. The store holds only a keyed hash of
// the token plus its expiry; the plaintext is returned exactly once at
// issuance and delivered to the client through a script-readable channel.
// It is deliberately less protected than the session credential: the
// token's purpose is to be read by page scripts and echoed back on
// state-changing requests, proving the request originated from the
// legitimate page rather than a cross-site forgery.
//
// # Validation
//
// Validate recomputes the hash of the presented token and compares it in
// constant time against the stored hash; plaintext is never compared to
// plaintext, and an expired record is evicted when observed. Everything
// fails closed: absent records, empty tokens, and hash mismatches are all
// ErrInvalidToken-class failures.
//
// A CSRF token is meaningless without a corresponding valid session.
// Validate the session first; this check layers on top for unsafe methods.
//
// # Usage
//
//	manager, err := csrf.New(csrf.NewMemoryStore(), keys.CSRF)
//
//	// At login, after session creation:
//	plaintext, err := manager.Issue(ctx, sess.Token)
//	// deliver plaintext via the script-readable cookie
//
//	// On each state-changing request:
//	if err := manager.Validate(ctx, sess.Token, presented); err != nil {
//		// 403
//	}
//
//	// On logout / session destruction:
//	_ = manager.Revoke(ctx, sess.Token)
//
// RedisStore shares records across processes; MemoryStore is for
// single-process deployments.
package csrf
