package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence contract for one partition. Implementations
// must handle concurrent access safely; per-token operations are atomic.
type Store interface {
	// Put stores a session record. The token is the primary key.
	Put(ctx context.Context, sess *Session) error

	// GetByToken returns the record for token, or ErrNotFound.
	GetByToken(ctx context.Context, token string) (*Session, error)

	// UpdateExpiry moves the sliding expiry for token. Returns
	// ErrNotFound when the record is gone; the caller treats that as a
	// concurrent destroy and both outcomes converge.
	UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error

	// Delete removes the record for token, or returns ErrNotFound.
	Delete(ctx context.Context, token string) error

	// DeleteByUser removes every session for the user, returning the
	// deleted tokens so companion records (CSRF) can be revoked.
	DeleteByUser(ctx context.Context, userID uuid.UUID) ([]string, error)

	// DeleteExpired removes records past their absolute expiry and
	// returns the count removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// PartitionedStore routes session operations across the fixed per-role
// partitions. The per-role sharding is an operational decision of the host
// system that this subsystem honors, not a pattern to emulate: deployments
// with a single data store should pass the same Store for every role, which
// collapses the fan-out to one lookup.
type PartitionedStore struct {
	partitions map[Role]Store
}

// NewPartitionedStore creates a store routing each role to its partition.
func NewPartitionedStore(participant, organizer, admin Store) (*PartitionedStore, error) {
	if participant == nil || organizer == nil || admin == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("every partition requires a store"))
	}

	return &PartitionedStore{
		partitions: map[Role]Store{
			RoleParticipant: participant,
			RoleOrganizer:   organizer,
			RoleAdmin:       admin,
		},
	}, nil
}

// NewSingleStore wraps one backing store as all three partitions, for
// deployments without per-role sharding.
func NewSingleStore(store Store) (*PartitionedStore, error) {
	return NewPartitionedStore(store, store, store)
}

// Put stores the session in the partition matching its role.
func (ps *PartitionedStore) Put(ctx context.Context, sess *Session) error {
	store, ok := ps.partitions[sess.Role]
	if !ok {
		return ErrInvalidRole
	}
	return store.Put(ctx, sess)
}

// Get returns the record for token from the given partition.
func (ps *PartitionedStore) Get(ctx context.Context, role Role, token string) (*Session, error) {
	store, ok := ps.partitions[role]
	if !ok {
		return nil, ErrInvalidRole
	}
	return store.GetByToken(ctx, token)
}

// Find looks the token up across every partition in the fixed Roles()
// order, returning the first match. A token alone does not indicate its
// partition, so this is a fan-out read; acceptable only because the
// partition set is small and static.
func (ps *PartitionedStore) Find(ctx context.Context, token string) (*Session, error) {
	for _, role := range Roles() {
		sess, err := ps.partitions[role].GetByToken(ctx, token)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// UpdateExpiry moves the sliding expiry in the partition for role.
func (ps *PartitionedStore) UpdateExpiry(ctx context.Context, role Role, token string, expiresAt time.Time) error {
	store, ok := ps.partitions[role]
	if !ok {
		return ErrInvalidRole
	}
	return store.UpdateExpiry(ctx, token, expiresAt)
}

// DeleteEverywhere attempts the delete against every partition, tolerating
// not-found where the session never lived. Callers never need to know
// which partition holds a session to destroy it; deleting an absent token
// is not an error.
func (ps *PartitionedStore) DeleteEverywhere(ctx context.Context, token string) error {
	var errs []error
	for _, role := range Roles() {
		if err := ps.partitions[role].Delete(ctx, token); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeleteUserSessions removes every session for the user across all
// partitions, returning the deleted tokens.
func (ps *PartitionedStore) DeleteUserSessions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	var errs []error
	for _, role := range Roles() {
		deleted, err := ps.partitions[role].DeleteByUser(ctx, userID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, deleted...)
	}
	return tokens, errors.Join(errs...)
}

// DeleteExpired sweeps every partition, returning the total removed.
// Distinct stores only: with NewSingleStore the shared backing store is
// swept once.
func (ps *PartitionedStore) DeleteExpired(ctx context.Context) (int64, error) {
	seen := make(map[Store]bool, len(ps.partitions))
	var total int64
	var errs []error
	for _, role := range Roles() {
		store := ps.partitions[role]
		if seen[store] {
			continue
		}
		seen[store] = true

		n, err := store.DeleteExpired(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		total += n
	}
	return total, errors.Join(errs...)
}
