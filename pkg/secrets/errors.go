package secrets

import "errors"

var (
	// ErrTokenTooShort is returned when a token is requested with less than
	// MinTokenBytes of entropy.
	ErrTokenTooShort = errors.New("token length below minimum entropy")
	// ErrTokenGeneration is returned when the system CSPRNG fails.
	ErrTokenGeneration = errors.New("failed to generate token")
	// ErrMissingSecret is returned when a required secret is absent in
	// production mode. This is fatal at startup by design.
	ErrMissingSecret = errors.New("missing signing secret")
)
