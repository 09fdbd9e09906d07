package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hackdayhq/authkit/core/csrf"
	"github.com/hackdayhq/authkit/core/logger"
)

// Manager orchestrates the session lifecycle: creation on login,
// validation with hijack detection and sliding refresh on every request,
// destruction on logout.
type Manager struct {
	store  *PartitionedStore
	csrf   *csrf.Manager
	config Config
	logger *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for lifecycle and security events.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// NewManager creates a session lifecycle manager. The CSRF manager is a
// required companion: every session carries exactly one anti-forgery token,
// issued at creation and revoked at destruction.
func NewManager(store *PartitionedStore, csrfManager *csrf.Manager, config Config, opts ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("partitioned store is required"))
	}
	if csrfManager == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("csrf manager is required"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		store:  store,
		csrf:   csrfManager,
		config: config,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Create issues a session for the verified identity plus its companion
// CSRF token, persisting the record in the partition matching the
// identity's role. Returns the session and the plaintext CSRF token; the
// caller delivers the session token over a script-inaccessible channel and
// the CSRF token over a script-readable one.
//
// No other session of the same user is affected: concurrent multi-device
// sessions are supported by design, and "logout everywhere" is a separate
// explicit operation.
func (m *Manager) Create(ctx context.Context, identity Identity, fingerprint string) (Session, string, error) {
	sess, err := New(identity, fingerprint, m.config.TTL, m.config.AbsoluteTTL)
	if err != nil {
		return Session{}, "", err
	}

	if err := m.store.Put(ctx, &sess); err != nil {
		return Session{}, "", errors.Join(ErrStoreUnavailable, err)
	}

	csrfToken, err := m.csrf.Issue(ctx, sess.Token)
	if err != nil {
		// Roll back the half-created session rather than leave a record
		// without its companion token.
		_ = m.store.DeleteEverywhere(ctx, sess.Token)
		return Session{}, "", err
	}

	m.logger.InfoContext(ctx, "session created",
		logger.UserID(sess.UserID),
		logger.Role(string(sess.Role)),
	)

	return sess, csrfToken, nil
}

// Validate checks a presented token and fingerprint against the store.
//
// Every rejection is terminal and side-effecting: the dead or compromised
// record is evicted before the error returns, so a stale or hijacked token
// never lingers server-side. Callers must also clear client-held
// credentials on any rejection (IsRejection reports which errors qualify).
//
// On success, the sliding expiry is extended in place when it is within
// the refresh threshold; the absolute expiry is never touched.
func (m *Manager) Validate(ctx context.Context, token, fingerprint string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}

	sess, err := m.store.Find(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, errors.Join(ErrStoreUnavailable, err)
	}

	// Absolute timeout wins over the sliding expiry: repeated activity
	// must not keep a session alive indefinitely.
	if sess.IsAbsoluteExpired() {
		m.evict(ctx, sess, "absolute_timeout")
		return Session{}, ErrAbsoluteTimeout
	}

	if sess.IsExpired() {
		m.evict(ctx, sess, "relative_timeout")
		return Session{}, ErrRelativeTimeout
	}

	// Fingerprints are not secrets, so exact comparison suffices. A valid
	// token from a different browser configuration is the hijack signal.
	if sess.Fingerprint != fingerprint {
		m.evict(ctx, sess, "fingerprint_mismatch")
		m.logger.WarnContext(ctx, "session fingerprint mismatch, terminating session",
			logger.SecurityEvent("session_hijack_suspected"),
			logger.UserID(sess.UserID),
			logger.Email(sess.Email),
			logger.Role(string(sess.Role)),
		)
		return Session{}, ErrFingerprintMismatch
	}

	if sess.NeedsRefresh(m.config.RefreshThreshold) {
		next := sess.NextExpiry(m.config.TTL)
		if err := m.store.UpdateExpiry(ctx, sess.Role, sess.Token, next); err != nil {
			if errors.Is(err, ErrNotFound) {
				// Concurrently destroyed; both outcomes converge to gone.
				return Session{}, ErrNotFound
			}
			return Session{}, errors.Join(ErrStoreUnavailable, err)
		}
		sess.ExpiresAt = next
	}

	return *sess, nil
}

// Destroy deletes the session from every partition and revokes its CSRF
// token. Idempotent: destroying an already-gone or never-existing token is
// not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	var errs []error
	if err := m.store.DeleteEverywhere(ctx, token); err != nil {
		errs = append(errs, err)
	}
	if err := m.csrf.Revoke(ctx, token); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DestroyAllForUser terminates every session of the user across all
// partitions ("logout everywhere"), revoking each companion CSRF token.
func (m *Manager) DestroyAllForUser(ctx context.Context, userID uuid.UUID) error {
	tokens, err := m.store.DeleteUserSessions(ctx, userID)

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	for _, token := range tokens {
		if revokeErr := m.csrf.Revoke(ctx, token); revokeErr != nil {
			errs = append(errs, revokeErr)
		}
	}

	if len(tokens) > 0 {
		m.logger.InfoContext(ctx, "terminated all sessions for user",
			logger.UserID(userID),
			slog.Int("sessions", len(tokens)),
		)
	}

	return errors.Join(errs...)
}

// CleanupExpired sweeps records past their absolute expiry from every
// partition. Memory hygiene: expired records are also evicted on access.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// Config returns the manager's lifecycle timings.
func (m *Manager) Config() Config {
	return m.config
}

// evict removes a rejected session plus its CSRF record, logging the
// reason for telemetry. Eviction failure is logged, not surfaced: the
// rejection itself must reach the caller regardless.
func (m *Manager) evict(ctx context.Context, sess *Session, reason string) {
	if err := m.store.DeleteEverywhere(ctx, sess.Token); err != nil {
		m.logger.ErrorContext(ctx, "failed to evict rejected session",
			logger.Error(err),
			logger.UserID(sess.UserID),
		)
	}
	if err := m.csrf.Revoke(ctx, sess.Token); err != nil {
		m.logger.ErrorContext(ctx, "failed to revoke csrf record",
			logger.Error(err),
			logger.UserID(sess.UserID),
		)
	}

	m.logger.InfoContext(ctx, "session rejected",
		logger.Reason(reason),
		logger.UserID(sess.UserID),
		logger.Role(string(sess.Role)),
	)
}
