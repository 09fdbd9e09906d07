package lockout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// recordRetention bounds how long an idle failure record survives in Redis.
// Long enough to outlive any lock window, short enough that abandoned
// records do not accumulate.
const recordRetention = 24 * time.Hour

// RedisStore implements Store backed by Redis, sharing lockout state across
// processes. Each record is a hash with "count" and "lock_until" (unix
// milliseconds, 0 when unlocked) fields.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces all lockout keys in Redis.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.keyPrefix = prefix
		}
	}
}

// NewRedisStore creates a Redis-backed lockout store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("redis client is required"))
	}

	rs := &RedisStore{
		client:    client,
		keyPrefix: "lockout:",
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs, nil
}

func (rs *RedisStore) Get(ctx context.Context, key string) (Attempt, bool, error) {
	fields, err := rs.client.HGetAll(ctx, rs.keyPrefix+key).Result()
	if err != nil {
		return Attempt{}, false, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return Attempt{}, false, nil
	}

	count, err := strconv.Atoi(fields["count"])
	if err != nil {
		return Attempt{}, false, fmt.Errorf("redis record corrupt count %q: %w", fields["count"], err)
	}
	attempt := Attempt{Count: count}

	if raw, ok := fields["lock_until"]; ok && raw != "" && raw != "0" {
		lockMs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Attempt{}, false, fmt.Errorf("redis record corrupt lock_until %q: %w", raw, err)
		}
		attempt.LockUntil = time.UnixMilli(lockMs)
	}

	return attempt, true, nil
}

func (rs *RedisStore) Incr(ctx context.Context, key string) (int, error) {
	pipe := rs.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, rs.keyPrefix+key, "count", 1)
	pipe.Expire(ctx, rs.keyPrefix+key, recordRetention)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis hincrby: %w", err)
	}
	return int(incr.Val()), nil
}

func (rs *RedisStore) SetLock(ctx context.Context, key string, until time.Time, count int) error {
	pipe := rs.client.TxPipeline()
	pipe.HSet(ctx, rs.keyPrefix+key, "count", count, "lock_until", until.UnixMilli())
	pipe.Expire(ctx, rs.keyPrefix+key, recordRetention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.keyPrefix+key).Err(); err != nil {
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
