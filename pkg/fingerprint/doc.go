// Package fingerprint derives stable, keyed device fingerprints from
// client-supplied request metadata for session hijack detection.
//
// A fingerprint is an HMAC-SHA256 (truncated to 128 bits) of the User-Agent
// and Accept-Language headers under a server-held secret, formatted as
// "v1:hash". The same browser configuration always produces the same
// fingerprint; a different server secret produces different fingerprints,
// so rotating the secret invalidates all outstanding sessions.
//
// # Threat Model
//
// Fingerprinting is a soft binding. It narrows a session to "same browser
// configuration", not "same device" and deliberately not "same IP", since
// IP binding breaks mobile and NAT roaming. A mismatch is a hijack
// detection signal rather than proof of malice, but the session is
// terminated on mismatch regardless: a stolen token replayed from another
// browser fails even though the token itself is valid.
//
// # Usage
//
//	// At session creation:
//	fp := fingerprint.Generate(r, keys.Session)
//
//	// On every subsequent request:
//	if err := fingerprint.Validate(r, keys.Session, sess.Fingerprint); err != nil {
//		// terminate session, log security event
//	}
//
// Callers outside net/http can derive fingerprints from raw values:
//
//	fp := fingerprint.FromValues(keys.Session, userAgent, acceptLanguage)
//
// Optional signals (Accept-Encoding, the set of stable headers present) can
// be enabled with functional options; use the same options for generation
// and validation.
package fingerprint
