package csrf

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with a mutex-guarded map for single-process
// deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an in-memory CSRF record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (ms *MemoryStore) Put(ctx context.Context, sessionToken string, record Record) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.records[sessionToken] = record
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionToken string) (Record, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	record, ok := ms.records[sessionToken]
	return record, ok, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionToken string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.records, sessionToken)
	return nil
}

// DeleteExpired removes records past their expiry, returning the count
// removed. Memory hygiene only; Validate evicts expired records on access.
func (ms *MemoryStore) DeleteExpired(ctx context.Context) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, record := range ms.records {
		if now.After(record.ExpiresAt) {
			delete(ms.records, key)
			removed++
		}
	}
	return removed, nil
}
