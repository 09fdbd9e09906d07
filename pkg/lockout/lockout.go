package lockout

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Config holds brute-force lockout tunables. The semantics (failures count,
// success resets, lock re-arms during the lock window) are fixed; only the
// thresholds are configuration.
type Config struct {
	MaxAttempts  int           `env:"LOCKOUT_MAX_ATTEMPTS" envDefault:"5"`
	LockDuration time.Duration `env:"LOCKOUT_DURATION" envDefault:"15m"`
}

// DefaultConfig returns the standard lockout policy: 5 consecutive failures
// lock the account for 15 minutes.
func DefaultConfig() Config {
	return Config{MaxAttempts: 5, LockDuration: 15 * time.Minute}
}

// Decision reports whether a login attempt may proceed.
type Decision struct {
	Allowed bool
	// LockUntil is set when denied: the time after which attempts are
	// accepted again.
	LockUntil time.Time
	// RemainingAttempts is set when allowed: failures left before lockout.
	RemainingAttempts int
}

// Tracker counts consecutive failed logins per email and locks the identity
// after the configured threshold. It is identity-keyed and asymmetric
// (failures count, a single success clears everything), unlike the
// endpoint-keyed rate limiter.
type Tracker struct {
	store  Store
	config Config
}

// New creates a lockout tracker over the given store.
func New(store Store, config Config) (*Tracker, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is required"))
	}
	if config.MaxAttempts <= 0 || config.LockDuration <= 0 {
		return nil, errors.Join(ErrInvalidConfig, errors.New("max attempts and lock duration must be positive"))
	}

	return &Tracker{store: store, config: config}, nil
}

// Check reports whether a login attempt for email may proceed. Call before
// verifying credentials.
//
// While locked, every attempt re-arms the lock to now+LockDuration without
// incrementing the failure count: hammering a locked account keeps it
// locked. When the stored count has reached the threshold but no lock is
// set yet (the failure that crossed the threshold), the lock is armed here.
func (t *Tracker) Check(ctx context.Context, email string) (Decision, error) {
	key := NormalizeEmail(email)

	attempt, found, err := t.store.Get(ctx, key)
	if err != nil {
		return Decision{}, errors.Join(ErrStoreUnavailable, err)
	}
	if !found {
		return Decision{Allowed: true, RemainingAttempts: t.config.MaxAttempts}, nil
	}

	now := time.Now()

	if attempt.LockUntil.After(now) {
		// Re-arm with the same count; the attempt itself does not count.
		lockUntil := now.Add(t.config.LockDuration)
		if err := t.store.SetLock(ctx, key, lockUntil, attempt.Count); err != nil {
			return Decision{}, errors.Join(ErrStoreUnavailable, err)
		}
		return Decision{Allowed: false, LockUntil: lockUntil}, nil
	}

	if !attempt.LockUntil.IsZero() {
		// A served lock expires the whole record: the account gets a fresh
		// failure budget rather than staying one attempt from re-locking.
		if err := t.store.Delete(ctx, key); err != nil {
			return Decision{}, errors.Join(ErrStoreUnavailable, err)
		}
		return Decision{Allowed: true, RemainingAttempts: t.config.MaxAttempts}, nil
	}

	if attempt.Count >= t.config.MaxAttempts {
		lockUntil := now.Add(t.config.LockDuration)
		if err := t.store.SetLock(ctx, key, lockUntil, attempt.Count); err != nil {
			return Decision{}, errors.Join(ErrStoreUnavailable, err)
		}
		return Decision{Allowed: false, LockUntil: lockUntil}, nil
	}

	return Decision{Allowed: true, RemainingAttempts: t.config.MaxAttempts - attempt.Count}, nil
}

// RecordFailure registers one failed credential check for email. The
// increment is atomic in the store, so concurrent failures never
// under-count toward the threshold.
func (t *Tracker) RecordFailure(ctx context.Context, email string) error {
	if _, err := t.store.Incr(ctx, NormalizeEmail(email)); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Clear removes the record for email entirely. Must be called on every
// successful login; otherwise a previously-near-locked user stays one
// attempt from lockout indefinitely.
func (t *Tracker) Clear(ctx context.Context, email string) error {
	if err := t.store.Delete(ctx, NormalizeEmail(email)); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// MaxAttempts returns the configured failure threshold.
func (t *Tracker) MaxAttempts() int {
	return t.config.MaxAttempts
}

// NormalizeEmail canonicalizes an email for use as a tracking key, so
// "User@Example.com " and "user@example.com" count against the same record.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
