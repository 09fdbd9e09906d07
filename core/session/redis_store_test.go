package session_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdayhq/authkit/core/session"
)

func newRedisStore(t *testing.T, opts ...session.RedisStoreOption) (*miniredis.Miniredis, *session.RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := session.NewRedisStore(client, opts...)
	require.NoError(t, err)
	return mr, store
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("requires client", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewRedisStore(nil)
		assert.ErrorIs(t, err, session.ErrInvalidConfig)
	})

	t.Run("put and get round-trip", func(t *testing.T) {
		t.Parallel()

		_, store := newRedisStore(t)
		sess := storedSession(t, session.RoleOrganizer)
		require.NoError(t, store.Put(ctx, &sess))

		got, err := store.GetByToken(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.Token, got.Token)
		assert.Equal(t, sess.UserID, got.UserID)
		assert.Equal(t, sess.Email, got.Email)
		assert.Equal(t, sess.Name, got.Name)
		assert.Equal(t, sess.Role, got.Role)
		assert.Equal(t, sess.Fingerprint, got.Fingerprint)
		// Stored at millisecond precision.
		assert.Equal(t, sess.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
		assert.Equal(t, sess.ExpiresAt.UnixMilli(), got.ExpiresAt.UnixMilli())
		assert.Equal(t, sess.AbsoluteExpiresAt.UnixMilli(), got.AbsoluteExpiresAt.UnixMilli())
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		t.Parallel()

		_, store := newRedisStore(t)
		_, err := store.GetByToken(ctx, "missing")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("key prefix namespaces partitions", func(t *testing.T) {
		t.Parallel()

		mr, store := newRedisStore(t, session.WithRedisKeyPrefix("session:admin:"))
		sess := storedSession(t, session.RoleAdmin)
		require.NoError(t, store.Put(ctx, &sess))

		assert.True(t, mr.Exists("session:admin:"+sess.Token))
		assert.False(t, mr.Exists("session:"+sess.Token))
	})

	t.Run("update expiry persists new sliding deadline", func(t *testing.T) {
		t.Parallel()

		_, store := newRedisStore(t)
		sess := storedSession(t, session.RoleParticipant)
		require.NoError(t, store.Put(ctx, &sess))

		next := sess.ExpiresAt.Add(30 * time.Minute)
		require.NoError(t, store.UpdateExpiry(ctx, sess.Token, next))

		got, err := store.GetByToken(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, next.UnixMilli(), got.ExpiresAt.UnixMilli())
		// The absolute ceiling never moves on refresh.
		assert.Equal(t, sess.AbsoluteExpiresAt.UnixMilli(), got.AbsoluteExpiresAt.UnixMilli())
	})

	t.Run("update after delete does not resurrect the record", func(t *testing.T) {
		t.Parallel()

		mr, store := newRedisStore(t)
		sess := storedSession(t, session.RoleParticipant)
		require.NoError(t, store.Put(ctx, &sess))
		require.NoError(t, store.Delete(ctx, sess.Token))

		err := store.UpdateExpiry(ctx, sess.Token, time.Now().Add(time.Hour))
		assert.ErrorIs(t, err, session.ErrNotFound)
		// The exists-guard in the script must not leave a bare hash behind.
		assert.False(t, mr.Exists("session:"+sess.Token))
	})

	t.Run("delete removes record and user index entry", func(t *testing.T) {
		t.Parallel()

		_, store := newRedisStore(t)
		sess := storedSession(t, session.RoleParticipant)
		require.NoError(t, store.Put(ctx, &sess))

		require.NoError(t, store.Delete(ctx, sess.Token))
		_, err := store.GetByToken(ctx, sess.Token)
		assert.ErrorIs(t, err, session.ErrNotFound)

		// The index no longer references the deleted token.
		tokens, err := store.DeleteByUser(ctx, sess.UserID)
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})

	t.Run("delete is not-found when record is absent", func(t *testing.T) {
		t.Parallel()

		_, store := newRedisStore(t)
		assert.ErrorIs(t, store.Delete(ctx, "missing"), session.ErrNotFound)
	})

	t.Run("delete by user removes every device session", func(t *testing.T) {
		t.Parallel()

		_, store := newRedisStore(t)
		first := storedSession(t, session.RoleParticipant)
		require.NoError(t, store.Put(ctx, &first))

		second := first
		second.Token = first.Token + "-tablet"
		require.NoError(t, store.Put(ctx, &second))

		bystander := storedSession(t, session.RoleParticipant)
		require.NoError(t, store.Put(ctx, &bystander))

		tokens, err := store.DeleteByUser(ctx, first.UserID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{first.Token, second.Token}, tokens)

		_, err = store.GetByToken(ctx, first.Token)
		assert.ErrorIs(t, err, session.ErrNotFound)
		_, err = store.GetByToken(ctx, second.Token)
		assert.ErrorIs(t, err, session.ErrNotFound)

		got, err := store.GetByToken(ctx, bystander.Token)
		require.NoError(t, err)
		assert.Equal(t, bystander.UserID, got.UserID)
	})

	t.Run("records expire at the absolute deadline via ttl", func(t *testing.T) {
		t.Parallel()

		mr, store := newRedisStore(t)
		sess := storedSession(t, session.RoleParticipant)
		require.NoError(t, store.Put(ctx, &sess))

		mr.FastForward(25 * time.Hour)

		_, err := store.GetByToken(ctx, sess.Token)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("corrupt record surfaces a parse error", func(t *testing.T) {
		t.Parallel()

		mr, store := newRedisStore(t)
		sess := storedSession(t, session.RoleParticipant)
		require.NoError(t, store.Put(ctx, &sess))

		mr.HSet("session:"+sess.Token, "expires_at", "not-a-timestamp")

		_, err := store.GetByToken(ctx, sess.Token)
		assert.ErrorContains(t, err, "expires_at")
	})

	t.Run("healthcheck pings the server", func(t *testing.T) {
		t.Parallel()

		mr, store := newRedisStore(t)
		require.NoError(t, store.Healthcheck(ctx))

		mr.Close()
		assert.ErrorIs(t, store.Healthcheck(ctx), session.ErrStoreUnavailable)
	})
}
