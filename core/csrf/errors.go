package csrf

import "errors"

var (
	// ErrInvalidConfig is returned for a misconfigured manager.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoSession is returned when issuing a token without a session.
	ErrNoSession = errors.New("no session for csrf token")
	// ErrTokenGeneration is returned when token generation fails.
	ErrTokenGeneration = errors.New("failed to generate csrf token")
	// ErrInvalidToken is returned when a presented token is missing,
	// unknown, or does not match the stored hash.
	ErrInvalidToken = errors.New("invalid csrf token")
	// ErrTokenExpired is returned when the stored record is past its
	// absolute expiry. The record is evicted when this is observed.
	ErrTokenExpired = errors.New("csrf token expired")
	// ErrStoreUnavailable wraps store failures.
	ErrStoreUnavailable = errors.New("csrf store unavailable")
)
