package sessiontransport

import "errors"

var (
	// ErrMissingDependency is returned when the transport is constructed
	// without its session or cookie manager.
	ErrMissingDependency = errors.New("sessiontransport: session and cookie managers are required")

	// ErrMissingSecret is returned when no fingerprint secret is provided.
	ErrMissingSecret = errors.New("sessiontransport: fingerprint secret is required")
)
