package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdayhq/authkit/pkg/ratelimiter"
)

func newLimiter(t *testing.T, limit int, window time.Duration) *ratelimiter.Limiter {
	t.Helper()

	limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Limit:  limit,
		Window: window,
	})
	require.NoError(t, err)
	return limiter
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects nil store", func(t *testing.T) {
		t.Parallel()

		_, err := ratelimiter.New(nil, ratelimiter.DefaultConfig())
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})

	t.Run("rejects non-positive limit or window", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()

		_, err := ratelimiter.New(store, ratelimiter.Config{Limit: 0, Window: time.Minute})
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

		_, err = ratelimiter.New(store, ratelimiter.Config{Limit: 5, Window: 0})
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})
}

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	t.Run("allows exactly limit requests per window", func(t *testing.T) {
		t.Parallel()

		limiter := newLimiter(t, 3, time.Minute)
		ctx := context.Background()

		for i := range 3 {
			result, err := limiter.Allow(ctx, "ip:203.0.113.1:/login")
			require.NoError(t, err)
			assert.True(t, result.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, int64(2-i), result.Remaining)
		}

		result, err := limiter.Allow(ctx, "ip:203.0.113.1:/login")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Zero(t, result.Remaining)
		assert.Positive(t, result.RetryAfter())
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()

		limiter := newLimiter(t, 1, time.Minute)
		ctx := context.Background()

		first, err := limiter.Allow(ctx, "ip:a")
		require.NoError(t, err)
		assert.True(t, first.Allowed)

		other, err := limiter.Allow(ctx, "ip:b")
		require.NoError(t, err)
		assert.True(t, other.Allowed)
	})

	t.Run("elapsed window restarts counting at one", func(t *testing.T) {
		t.Parallel()

		limiter := newLimiter(t, 1, 40*time.Millisecond)
		ctx := context.Background()

		first, err := limiter.Allow(ctx, "ip:c")
		require.NoError(t, err)
		assert.True(t, first.Allowed)

		denied, err := limiter.Allow(ctx, "ip:c")
		require.NoError(t, err)
		assert.False(t, denied.Allowed)

		time.Sleep(50 * time.Millisecond)

		fresh, err := limiter.Allow(ctx, "ip:c")
		require.NoError(t, err)
		assert.True(t, fresh.Allowed)
		assert.Equal(t, int64(0), fresh.Remaining)
	})

	t.Run("reset clears the counter", func(t *testing.T) {
		t.Parallel()

		limiter := newLimiter(t, 1, time.Minute)
		ctx := context.Background()

		_, err := limiter.Allow(ctx, "ip:d")
		require.NoError(t, err)

		require.NoError(t, limiter.Reset(ctx, "ip:d"))

		result, err := limiter.Allow(ctx, "ip:d")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()

	t.Run("zero when allowed", func(t *testing.T) {
		t.Parallel()

		result := ratelimiter.Result{Allowed: true, ResetAt: time.Now().Add(time.Minute)}
		assert.Zero(t, result.RetryAfter())
	})

	t.Run("positive when denied", func(t *testing.T) {
		t.Parallel()

		result := ratelimiter.Result{Allowed: false, ResetAt: time.Now().Add(30 * time.Second)}
		retryAfter := result.RetryAfter()
		assert.Positive(t, retryAfter)
		assert.LessOrEqual(t, retryAfter, 30*time.Second)
	})
}
