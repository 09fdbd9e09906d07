package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hackdayhq/authkit/pkg/secrets"
)

// Role identifies the partition a user's sessions live in. The host system
// stores users in separate logical partitions per role; sessions follow.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleOrganizer   Role = "organizer"
	RoleAdmin       Role = "admin"
)

// Roles returns every partition in the fixed fan-out order used when the
// partition holding a token is not yet known.
func Roles() [3]Role {
	return [3]Role{RoleParticipant, RoleOrganizer, RoleAdmin}
}

// Valid reports whether r names a known partition.
func (r Role) Valid() bool {
	switch r {
	case RoleParticipant, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// Identity is the verified user snapshot a session is created from.
// Credential verification itself belongs to the user store collaborator.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   Role
}

// Session binds an opaque token to an authenticated identity for one
// browser/device. The server record is the single source of truth; any
// client-held copy is a cache and is never trusted for authorization.
type Session struct {
	// Token is the cryptographically secure session token
	// (32 bytes, base64url). The web layer holds only this value.
	Token string

	// Identity snapshot taken at creation. Role is fixed for the
	// session's lifetime; a role change requires a new session.
	UserID uuid.UUID
	Email  string
	Name   string
	Role   Role

	// Fingerprint is the keyed device fingerprint, set once at creation
	// and never changed by refresh.
	Fingerprint string

	CreatedAt time.Time
	// ExpiresAt slides forward on refresh, never past AbsoluteExpiresAt.
	ExpiresAt time.Time
	// AbsoluteExpiresAt is the hard ceiling, immutable after creation.
	AbsoluteExpiresAt time.Time
}

// New creates a session record for the verified identity. The token
// carries 256 bits of entropy from the system CSPRNG.
func New(identity Identity, fingerprint string, ttl, absoluteTTL time.Duration) (Session, error) {
	if identity.UserID == uuid.Nil {
		return Session{}, ErrMissingIdentity
	}
	if !identity.Role.Valid() {
		return Session{}, ErrInvalidRole
	}
	if fingerprint == "" {
		return Session{}, ErrMissingFingerprint
	}

	token, err := secrets.Token(32)
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	absoluteExpiresAt := now.Add(absoluteTTL)
	if expiresAt.After(absoluteExpiresAt) {
		expiresAt = absoluteExpiresAt
	}

	return Session{
		Token:             token,
		UserID:            identity.UserID,
		Email:             identity.Email,
		Name:              identity.Name,
		Role:              identity.Role,
		Fingerprint:       fingerprint,
		CreatedAt:         now,
		ExpiresAt:         expiresAt,
		AbsoluteExpiresAt: absoluteExpiresAt,
	}, nil
}

// IsExpired reports whether the sliding expiry has passed.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsAbsoluteExpired reports whether the hard ceiling has passed. Checked
// before and independently of the sliding expiry: no amount of activity
// keeps a session alive past this point.
func (s Session) IsAbsoluteExpired() bool {
	return time.Now().After(s.AbsoluteExpiresAt)
}

// NeedsRefresh reports whether the sliding expiry is close enough to
// warrant extension. Refresh only near the deadline keeps write volume
// bounded on busy sessions.
func (s Session) NeedsRefresh(threshold time.Duration) bool {
	return time.Until(s.ExpiresAt) < threshold
}

// NextExpiry computes the refreshed sliding expiry, capped at the absolute
// ceiling so the record invariant CreatedAt <= ExpiresAt <= AbsoluteExpiresAt
// survives every refresh.
func (s Session) NextExpiry(ttl time.Duration) time.Time {
	next := time.Now().Add(ttl)
	if next.After(s.AbsoluteExpiresAt) {
		return s.AbsoluteExpiresAt
	}
	return next
}
