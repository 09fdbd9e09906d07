package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory. Suitable for tests and
// single-process deployments; use RedisStore or PostgresStore when sessions
// must survive restarts or span processes.
//
// Expired records self-correct on access via the manager; DeleteExpired
// exists for memory hygiene and is driven by Manager.CleanupExpired.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	byUser   map[uuid.UUID]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		byUser:   make(map[uuid.UUID]map[string]struct{}),
	}
}

func (ms *MemoryStore) Put(ctx context.Context, sess *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[sess.Token] = *sess

	tokens, ok := ms.byUser[sess.UserID]
	if !ok {
		tokens = make(map[string]struct{})
		ms.byUser[sess.UserID] = tokens
	}
	tokens[sess.Token] = struct{}{}

	return nil
}

func (ms *MemoryStore) GetByToken(ctx context.Context, token string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	sess, ok := ms.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}

	// Copy out so callers never share memory with the map.
	return &sess, nil
}

func (ms *MemoryStore) UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	sess, ok := ms.sessions[token]
	if !ok {
		return ErrNotFound
	}

	sess.ExpiresAt = expiresAt
	ms.sessions[token] = sess
	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	sess, ok := ms.sessions[token]
	if !ok {
		return ErrNotFound
	}

	ms.remove(sess.UserID, token)
	return nil
}

func (ms *MemoryStore) DeleteByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	tokens := make([]string, 0, len(ms.byUser[userID]))
	for token := range ms.byUser[userID] {
		tokens = append(tokens, token)
	}
	for _, token := range tokens {
		ms.remove(userID, token)
	}

	return tokens, nil
}

func (ms *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var removed int64
	for token, sess := range ms.sessions {
		if now.After(sess.AbsoluteExpiresAt) {
			ms.remove(sess.UserID, token)
			removed++
		}
	}

	return removed, nil
}

// Len returns the number of stored sessions. Exposed for observability.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}

// remove deletes token plus its user-index entry. Caller holds the lock.
func (ms *MemoryStore) remove(userID uuid.UUID, token string) {
	delete(ms.sessions, token)

	if tokens, ok := ms.byUser[userID]; ok {
		delete(tokens, token)
		if len(tokens) == 0 {
			delete(ms.byUser, userID)
		}
	}
}
