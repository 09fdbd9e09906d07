// Package secrets provides the cryptographic primitives shared by the
// session security subsystem: secure random token generation, keyed-hash
// signing, and timing-safe comparison.
//
// # Token Generation
//
// Token produces base64url-encoded random tokens from crypto/rand:
//
//	token, err := secrets.Token(32) // 256 bits of entropy
//	if err != nil {
//		// CSPRNG failure, treat as fatal
//	}
//
// A general-purpose PRNG is never acceptable here; token unpredictability is
// the entire security model of opaque session credentials.
//
// # Keyed Signing
//
// Sign computes HMAC-SHA256 under a server-held secret. It backs device
// fingerprint derivation and CSRF token hashing:
//
//	fp := secrets.Sign(keys.Session, userAgent+"|"+acceptLanguage)
//
// # Constant-Time Comparison
//
// Equal compares two strings without leaking where they first differ:
//
//	if !secrets.Equal(storedHash, presentedHash) {
//		// reject
//	}
//
// Inputs of different lengths return false immediately. Length itself is not
// treated as secret because it cannot be hidden without padding.
//
// # Secret Loading
//
// Load resolves the session and CSRF signing secrets from configuration.
// In production a missing secret is a fatal error; outside production a
// fixed placeholder is substituted and a warning is logged so the weakened
// configuration is always visible:
//
//	keys := secrets.MustLoad(cfg, logger) // panics if production and unset
package secrets
