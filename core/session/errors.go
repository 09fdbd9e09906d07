package session

import "errors"

var (
	// ErrNoSession is returned when no token was presented at all.
	ErrNoSession = errors.New("no session token")
	// ErrNotFound is returned when the token matches no record in any
	// partition. The caller must clear client-held credentials: the client
	// is holding a token for a session that no longer exists.
	ErrNotFound = errors.New("session not found")
	// ErrAbsoluteTimeout is returned when the hard ceiling has passed.
	// Takes precedence over the sliding expiry.
	ErrAbsoluteTimeout = errors.New("session absolute timeout")
	// ErrRelativeTimeout is returned when the sliding expiry has passed
	// without a refresh.
	ErrRelativeTimeout = errors.New("session relative timeout")
	// ErrFingerprintMismatch is returned when a valid token arrives from a
	// different browser configuration. The hijack-detection branch; the
	// record is deleted and a security event is logged.
	ErrFingerprintMismatch = errors.New("session fingerprint mismatch")

	// ErrMissingIdentity is returned when creating a session without a user ID.
	ErrMissingIdentity = errors.New("user identity is required")
	// ErrInvalidRole is returned for a role outside the partition set.
	ErrInvalidRole = errors.New("invalid session role")
	// ErrMissingFingerprint is returned when creating a session without a
	// device fingerprint.
	ErrMissingFingerprint = errors.New("device fingerprint is required")
	// ErrTokenGeneration is returned when token generation fails.
	ErrTokenGeneration = errors.New("failed to generate session token")
	// ErrInvalidConfig is returned for a misconfigured manager or store.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrStoreUnavailable wraps persistence failures.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// rejections are the validation outcomes that terminate a session check.
// Every one of them also evicts server-side state and instructs the web
// layer to clear client-held credentials.
var rejections = []error{
	ErrNoSession,
	ErrNotFound,
	ErrAbsoluteTimeout,
	ErrRelativeTimeout,
	ErrFingerprintMismatch,
}

// IsRejection reports whether err is a terminal validation rejection.
// Callers collapse every rejection into one uniform "not authenticated"
// outcome: the specific reason is for logging and telemetry only and is
// never echoed to the end user, where it would aid an attacker.
func IsRejection(err error) bool {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return true
		}
	}
	return false
}
