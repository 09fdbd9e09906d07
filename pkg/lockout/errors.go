package lockout

import "errors"

var (
	// ErrInvalidConfig is returned for a misconfigured tracker.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrStoreUnavailable wraps store failures.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrLocked is the sentinel callers may surface when a Decision denies:
	// unlike session rejections, the lock deadline is safe to show users.
	ErrLocked = errors.New("account temporarily locked")
)
