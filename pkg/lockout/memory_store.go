package lockout

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with a mutex-guarded map. Records are
// process-lifetime only, which matches the semantics: an expired or lost
// record simply restarts the count.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Attempt
}

// NewMemoryStore creates an in-memory lockout store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Attempt)}
}

func (ms *MemoryStore) Get(ctx context.Context, key string) (Attempt, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec, ok := ms.records[key]
	if !ok {
		return Attempt{}, false, nil
	}
	return *rec, true, nil
}

func (ms *MemoryStore) Incr(ctx context.Context, key string) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec, ok := ms.records[key]
	if !ok {
		rec = &Attempt{}
		ms.records[key] = rec
	}
	rec.Count++
	return rec.Count, nil
}

func (ms *MemoryStore) SetLock(ctx context.Context, key string, until time.Time, count int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.records[key] = &Attempt{Count: count, LockUntil: until}
	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.records, key)
	return nil
}

// Sweep removes records whose lock has expired and whose count is stale.
// Memory hygiene only; expired locks are also handled on next Check.
func (ms *MemoryStore) Sweep(olderThan time.Time) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for key, rec := range ms.records {
		if !rec.LockUntil.IsZero() && rec.LockUntil.Before(olderThan) {
			delete(ms.records, key)
			removed++
		}
	}
	return removed
}
