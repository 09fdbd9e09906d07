package csrf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/hackdayhq/authkit/pkg/secrets"
)

// Manager issues and validates per-session anti-forgery tokens.
//
// Only a keyed hash of each token is stored; the plaintext is returned once
// at issuance and never persisted. A CSRF token is meaningless without a
// valid session: validation here is layered on top of session validation
// for state-changing requests, never a substitute for it.
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
	logger *slog.Logger
}

// Option is a functional option for configuring the manager.
type Option func(*Manager)

// WithTTL sets the absolute token lifetime. Defaults to 24 hours, matching
// the session's absolute timeout so a session never outlives its token.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger sets the logger for internal operations.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a CSRF token manager. secret keys the token hashes at rest.
func New(store Store, secret string, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is required"))
	}
	if secret == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("secret is required"))
	}

	m := &Manager{
		store:  store,
		secret: secret,
		ttl:    24 * time.Hour,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Issue generates a fresh token for the session, stores its hash with an
// absolute expiry, and returns the plaintext exactly once. The caller
// delivers it to the client over a script-readable channel; being readable
// by page scripts and echoed back on state-changing requests is the token's
// entire purpose.
//
// Issuing replaces any previous token for the same session.
func (m *Manager) Issue(ctx context.Context, sessionToken string) (string, error) {
	if sessionToken == "" {
		return "", ErrNoSession
	}

	plaintext, err := secrets.Token(32)
	if err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}

	record := Record{
		TokenHash: secrets.Sign(m.secret, plaintext),
		ExpiresAt: time.Now().Add(m.ttl),
	}

	if err := m.store.Put(ctx, sessionToken, record); err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}

	return plaintext, nil
}

// Validate checks a presented token against the session's stored hash.
// Fails closed: absent record, empty presented token, and expiry all return
// ErrInvalidToken-class errors. Expired records are evicted on sight.
// The comparison recomputes the presented token's hash and compares in
// constant time; plaintext is never compared to plaintext.
func (m *Manager) Validate(ctx context.Context, sessionToken, presented string) error {
	if sessionToken == "" || presented == "" {
		return ErrInvalidToken
	}

	record, found, err := m.store.Get(ctx, sessionToken)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if !found {
		return ErrInvalidToken
	}

	if time.Now().After(record.ExpiresAt) {
		if err := m.store.Delete(ctx, sessionToken); err != nil {
			m.logger.WarnContext(ctx, "failed to evict expired csrf record", slog.Any("error", err))
		}
		return ErrTokenExpired
	}

	if !secrets.Equal(record.TokenHash, secrets.Sign(m.secret, presented)) {
		return ErrInvalidToken
	}

	return nil
}

// Revoke removes the session's token record. Called when the session is
// destroyed; revoking an absent record is not an error.
func (m *Manager) Revoke(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	if err := m.store.Delete(ctx, sessionToken); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
