package lockout_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdayhq/authkit/pkg/lockout"
)

// TestConcurrentFailuresNeverUndercount verifies the atomic
// increment-and-check contract: parallel failed logins must all count
// toward the threshold.
func TestConcurrentFailuresNeverUndercount(t *testing.T) {
	t.Parallel()

	const failures = 100

	store := lockout.NewMemoryStore()
	tracker, err := lockout.New(store, lockout.Config{
		MaxAttempts:  failures + 1,
		LockDuration: time.Minute,
	})
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(failures)

	for range failures {
		go func() {
			defer wg.Done()
			_ = tracker.RecordFailure(ctx, "user@example.com")
		}()
	}

	wg.Wait()

	decision, err := tracker.Check(ctx, "user@example.com")
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.RemainingAttempts)
}

// TestConcurrentCheckAndClear verifies check/clear convergence: whatever the
// interleaving, the final state after Clear is a clean record.
func TestConcurrentCheckAndClear(t *testing.T) {
	t.Parallel()

	tracker, err := lockout.New(lockout.NewMemoryStore(), lockout.DefaultConfig())
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = tracker.Check(ctx, "busy@example.com")
		}()
		go func() {
			defer wg.Done()
			_ = tracker.RecordFailure(ctx, "busy@example.com")
		}()
	}

	wg.Wait()
	require.NoError(t, tracker.Clear(ctx, "busy@example.com"))

	decision, err := tracker.Check(ctx, "busy@example.com")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, tracker.MaxAttempts(), decision.RemainingAttempts)
}
