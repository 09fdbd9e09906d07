// Package session manages authenticated sessions with dual expiry, device
// binding, and role-partitioned persistence.
//
// Sessions carry a denormalized identity snapshot (user ID, email, display
// name, role) alongside an HMAC device fingerprint. Two clocks govern every
// session: a sliding expiry extended by activity (default 1 hour) and an
// absolute ceiling fixed at creation (default 24 hours) that no amount of
// activity can move.
//
// # Core Components
//
//   - Session: the immutable-identity record with both expiry clocks
//   - Manager: Create / Validate / Destroy lifecycle, plus "logout everywhere"
//   - Store: persistence contract for one partition (memory, Redis, Postgres)
//   - PartitionedStore: routes operations across the per-role partitions
//
// # Basic Usage
//
//	store, _ := session.NewSingleStore(session.NewMemoryStore())
//	csrfMgr, _ := csrf.New(csrf.NewMemoryStore(), keys.CSRF)
//	manager, _ := session.NewManager(store, csrfMgr, session.DefaultConfig())
//
//	// Login: after verifying credentials.
//	sess, csrfToken, err := manager.Create(ctx, session.Identity{
//		UserID: user.ID,
//		Email:  user.Email,
//		Name:   user.Name,
//		Role:   session.RoleParticipant,
//	}, fingerprint.Generate(r, keys.Session))
//
//	// Every request: validate token + fingerprint together.
//	sess, err := manager.Validate(ctx, token, fingerprint.Generate(r, keys.Session))
//	if session.IsRejection(err) {
//		// Clear client credentials; the server-side record is already gone.
//	}
//
// # Rejection Semantics
//
// Validate distinguishes four terminal rejections, checked in order:
// ErrNotFound (unknown token), ErrAbsoluteTimeout, ErrRelativeTimeout, and
// ErrFingerprintMismatch (suspected hijack). Each one evicts the server-side
// record before returning, so a rejected token can never be replayed.
// IsRejection reports whether an error requires the caller to clear
// client-held credentials.
//
// # Partitioning
//
// Participant, organizer, and admin sessions live in separate partitions.
// Lookups by bare token fan out across partitions in a fixed order;
// destruction removes the token from every partition. Deployments without
// per-role sharding use NewSingleStore, which collapses the fan-out to a
// single lookup.
package session
