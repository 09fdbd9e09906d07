package csrf

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store backed by Redis. Records carry their expiry
// both as a field (for the manager's precedence checks) and as a Redis TTL
// (so abandoned records evict themselves).
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces all CSRF keys in Redis.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.keyPrefix = prefix
		}
	}
}

// NewRedisStore creates a Redis-backed CSRF record store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("redis client is required"))
	}

	rs := &RedisStore{
		client:    client,
		keyPrefix: "csrf:",
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs, nil
}

func (rs *RedisStore) Put(ctx context.Context, sessionToken string, record Record) error {
	key := rs.keyPrefix + sessionToken

	pipe := rs.client.TxPipeline()
	pipe.HSet(ctx, key, "hash", record.TokenHash, "expires_at", record.ExpiresAt.UnixMilli())
	pipe.PExpireAt(ctx, key, record.ExpiresAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (rs *RedisStore) Get(ctx context.Context, sessionToken string) (Record, bool, error) {
	fields, err := rs.client.HGetAll(ctx, rs.keyPrefix+sessionToken).Result()
	if err != nil {
		return Record{}, false, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return Record{}, false, nil
	}

	expiresMs, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return Record{}, false, fmt.Errorf("redis record corrupt expires_at %q: %w", fields["expires_at"], err)
	}

	return Record{
		TokenHash: fields["hash"],
		ExpiresAt: time.UnixMilli(expiresMs),
	}, true, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionToken string) error {
	if err := rs.client.Del(ctx, rs.keyPrefix+sessionToken).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Healthcheck validates Redis connectivity.
func (rs *RedisStore) Healthcheck(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
