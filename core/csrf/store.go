package csrf

import (
	"context"
	"time"
)

// Record is the stored form of an issued token: only the keyed hash plus
// its absolute expiry. The plaintext token never reaches the store.
type Record struct {
	TokenHash string
	ExpiresAt time.Time
}

// Store persists token records keyed by session token.
type Store interface {
	// Put stores or replaces the record for the session.
	Put(ctx context.Context, sessionToken string, record Record) error

	// Get returns the record for the session, with found=false when absent.
	Get(ctx context.Context, sessionToken string) (record Record, found bool, err error)

	// Delete removes the record. Deleting an absent key is not an error.
	Delete(ctx context.Context, sessionToken string) error
}
