package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// updateExpiryScript moves the sliding expiry only when the record still
// exists, so a concurrent destroy is never resurrected as a bare hash.
var updateExpiryScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], "expires_at", ARGV[1])
return 1
`)

// RedisStore implements Store backed by Redis. Each record is a hash keyed
// by token with a Redis TTL at the absolute expiry, so abandoned sessions
// evict themselves; a per-user set indexes tokens for "logout everywhere".
//
// Partitioned deployments run one RedisStore per role with distinct key
// prefixes (for example "session:participant:"), possibly against separate
// Redis databases.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix namespaces all session keys. Give each role partition
// its own prefix when partitions share a Redis instance.
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.keyPrefix = prefix
		}
	}
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("redis client is required"))
	}

	rs := &RedisStore{
		client:    client,
		keyPrefix: "session:",
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs, nil
}

func (rs *RedisStore) key(token string) string {
	return rs.keyPrefix + token
}

func (rs *RedisStore) userKey(userID uuid.UUID) string {
	return rs.keyPrefix + "user:" + userID.String()
}

func (rs *RedisStore) Put(ctx context.Context, sess *Session) error {
	pipe := rs.client.TxPipeline()
	pipe.HSet(ctx, rs.key(sess.Token),
		"user_id", sess.UserID.String(),
		"email", sess.Email,
		"name", sess.Name,
		"role", string(sess.Role),
		"fingerprint", sess.Fingerprint,
		"created_at", sess.CreatedAt.UnixMilli(),
		"expires_at", sess.ExpiresAt.UnixMilli(),
		"absolute_expires_at", sess.AbsoluteExpiresAt.UnixMilli(),
	)
	pipe.PExpireAt(ctx, rs.key(sess.Token), sess.AbsoluteExpiresAt)
	pipe.SAdd(ctx, rs.userKey(sess.UserID), sess.Token)
	// The index outlives its members slightly; DeleteByUser tolerates
	// tokens whose record already expired.
	pipe.PExpireAt(ctx, rs.userKey(sess.UserID), sess.AbsoluteExpiresAt.Add(time.Hour))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put session: %w", err)
	}
	return nil
}

func (rs *RedisStore) GetByToken(ctx context.Context, token string) (*Session, error) {
	fields, err := rs.client.HGetAll(ctx, rs.key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	return sessionFromFields(token, fields)
}

func (rs *RedisStore) UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	updated, err := updateExpiryScript.Run(ctx, rs.client,
		[]string{rs.key(token)}, expiresAt.UnixMilli()).Int()
	if err != nil {
		return fmt.Errorf("redis update expiry: %w", err)
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

func (rs *RedisStore) Delete(ctx context.Context, token string) error {
	userID, err := rs.client.HGet(ctx, rs.key(token), "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis hget: %w", err)
	}

	pipe := rs.client.TxPipeline()
	pipe.Del(ctx, rs.key(token))
	if uid, parseErr := uuid.Parse(userID); parseErr == nil {
		pipe.SRem(ctx, rs.userKey(uid), token)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

func (rs *RedisStore) DeleteByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	tokens, err := rs.client.SMembers(ctx, rs.userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, rs.key(token))
	}
	keys = append(keys, rs.userKey(userID))

	if err := rs.client.Del(ctx, keys...).Err(); err != nil {
		return nil, fmt.Errorf("redis del sessions: %w", err)
	}

	return tokens, nil
}

// DeleteExpired is a no-op for Redis: records expire at their absolute
// deadline via the per-key TTL set on Put.
func (rs *RedisStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// Healthcheck validates Redis connectivity.
func (rs *RedisStore) Healthcheck(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func sessionFromFields(token string, fields map[string]string) (*Session, error) {
	userID, err := uuid.Parse(fields["user_id"])
	if err != nil {
		return nil, fmt.Errorf("redis record corrupt user_id %q: %w", fields["user_id"], err)
	}

	parseMs := func(field string) (time.Time, error) {
		ms, err := strconv.ParseInt(fields[field], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("redis record corrupt %s %q: %w", field, fields[field], err)
		}
		return time.UnixMilli(ms), nil
	}

	createdAt, err := parseMs("created_at")
	if err != nil {
		return nil, err
	}
	expiresAt, err := parseMs("expires_at")
	if err != nil {
		return nil, err
	}
	absoluteExpiresAt, err := parseMs("absolute_expires_at")
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:             token,
		UserID:            userID,
		Email:             fields["email"],
		Name:              fields["name"],
		Role:              Role(fields["role"]),
		Fingerprint:       fields["fingerprint"],
		CreatedAt:         createdAt,
		ExpiresAt:         expiresAt,
		AbsoluteExpiresAt: absoluteExpiresAt,
	}, nil
}
