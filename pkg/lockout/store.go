package lockout

import (
	"context"
	"time"
)

// Attempt is the per-email failure record.
type Attempt struct {
	// Count of consecutive failures since the last successful login.
	Count int
	// LockUntil is the time after which attempts are allowed again.
	// Zero value means not locked.
	LockUntil time.Time
}

// Store persists failure records. Incr must be atomic with respect to
// concurrent calls for the same key.
type Store interface {
	// Get returns the record for key, with found=false when absent.
	Get(ctx context.Context, key string) (attempt Attempt, found bool, err error)

	// Incr increments the failure count for key, creating the record if
	// absent, and returns the post-increment count.
	Incr(ctx context.Context, key string) (count int, err error)

	// SetLock arms or re-arms the lock for key, preserving count.
	SetLock(ctx context.Context, key string, until time.Time, count int) error

	// Delete removes the record entirely. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
}
