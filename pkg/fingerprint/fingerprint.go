package fingerprint

import (
	"net/http"
	"sort"
	"strings"

	"github.com/hackdayhq/authkit/pkg/secrets"
)

const (
	fingerprintVersion = "v1:"
	// fingerprintHashLen keeps 16 bytes (128 bits) of the HMAC output.
	// Enough to make collisions irrelevant for hijack detection while
	// halving storage per session record.
	fingerprintHashLen = 16
	// fingerprintTotalLen is 3 bytes ("v1:") + 32 hex chars = 35 bytes.
	fingerprintTotalLen = 35
)

// Generate derives a device fingerprint from the HTTP request, keyed under
// the server secret. Returns a version-prefixed string in format "v1:hash".
//
// The fingerprint binds a session to "same browser configuration", not
// "same IP": IP-based binding breaks legitimate mobile and NAT roaming, so
// it is excluded by default. Rotating the secret changes every fingerprint,
// which invalidates all outstanding sessions by design.
//
//	fp := fingerprint.Generate(r, keys.Session)
//	fp := fingerprint.Generate(r, keys.Session, WithHeaderSet())
func Generate(r *http.Request, secret string, opts ...Option) string {
	o := applyOptions(opts...)

	components := []string{
		r.UserAgent(),
		r.Header.Get("Accept-Language"),
	}

	if o.includeAcceptEncoding {
		components = append(components, r.Header.Get("Accept-Encoding"))
	}

	if o.includeHeaderSet {
		components = append(components, headerSet(r))
	}

	return FromValues(secret, components...)
}

// FromValues derives a fingerprint directly from client-supplied metadata
// values, for callers that sit outside net/http. Same inputs and secret
// always yield the same fingerprint; empty values are permitted.
func FromValues(secret string, values ...string) string {
	// Pipe delimiter prevents collisions where ["ab","c"] and ["a","bc"]
	// would otherwise hash identically. Empty components stay in place so
	// a missing header is itself a stable signal.
	combined := strings.Join(values, "|")
	mac := secrets.Sign(secret, combined)

	return fingerprintVersion + mac[:fingerprintHashLen*2]
}

// Validate compares the current request fingerprint with a stored one.
// Returns nil on match, ErrMismatch on mismatch, ErrInvalidFingerprint when
// the stored value is malformed.
//
// Fingerprints are not secrets, so an exact string comparison is sufficient;
// a mismatch is a security event (probable token theft) and the caller is
// expected to terminate the session regardless.
//
// Use the same options the stored fingerprint was generated with.
func Validate(r *http.Request, secret, sessionFingerprint string, opts ...Option) error {
	if !strings.HasPrefix(sessionFingerprint, fingerprintVersion) || len(sessionFingerprint) != fingerprintTotalLen {
		return ErrInvalidFingerprint
	}

	if Generate(r, secret, opts...) == sessionFingerprint {
		return nil
	}

	return ErrMismatch
}

// headerSet fingerprints which stable browser headers are present, not their
// values. Chrome sends Sec-Fetch-* headers, Firefox has different Accept
// defaults, API clients send minimal sets; the presence pattern is a useful
// extra signal. Volatile headers (cookies, cache directives) are excluded.
func headerSet(r *http.Request) string {
	var names []string
	for name := range r.Header {
		switch strings.ToLower(name) {
		case "user-agent", "accept", "accept-language", "accept-encoding",
			"upgrade-insecure-requests", "sec-fetch-dest",
			"sec-fetch-mode", "sec-fetch-site":
			names = append(names, strings.ToLower(name))
		}
	}

	sort.Strings(names)
	return strings.Join(names, ",")
}
