package fingerprint

import "errors"

// options configures fingerprint generation behavior.
type options struct {
	// includeAcceptEncoding adds the Accept-Encoding header as a signal.
	// Default: false, it can change when proxies rewrite requests.
	includeAcceptEncoding bool

	// includeHeaderSet adds a fingerprint of which stable headers are
	// present. Default: false, kept opt-in so non-HTTP callers using
	// FromValues produce identical fingerprints to HTTP callers.
	includeHeaderSet bool
}

// Option is a functional option for configuring fingerprint generation.
type Option func(*options)

// WithAcceptEncoding includes the Accept-Encoding header in the fingerprint.
// Avoid when requests may traverse proxies that rewrite encoding negotiation.
func WithAcceptEncoding() Option {
	return func(o *options) {
		o.includeAcceptEncoding = true
	}
}

// WithHeaderSet includes the set of stable browser headers present on the
// request. Different browsers and HTTP clients send different header sets,
// which strengthens the device signal at the cost of more false positives
// from browser updates.
func WithHeaderSet() Option {
	return func(o *options) {
		o.includeHeaderSet = true
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validation errors that can be checked with errors.Is()
var (
	// ErrInvalidFingerprint indicates the stored fingerprint has invalid format.
	ErrInvalidFingerprint = errors.New("invalid fingerprint format")

	// ErrMismatch indicates the fingerprint doesn't match the current request.
	// Either a session hijacking attempt or a legitimate change to the
	// client's browser configuration; the session is terminated either way.
	ErrMismatch = errors.New("fingerprint mismatch")
)
