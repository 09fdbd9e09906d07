package secrets

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log/slog"
)

const (
	// MinTokenBytes is the minimum entropy for security tokens (256 bits).
	MinTokenBytes = 32

	// devPlaceholderSecret is the fallback secret used outside production
	// when no secret is configured. It is deliberately recognizable so it
	// never passes a security review by accident.
	devPlaceholderSecret = "insecure-dev-secret-do-not-use-in-production!!!!"
)

// Token generates a cryptographically secure random token of byteLen random
// bytes, encoded as base64url without padding. byteLen values below
// MinTokenBytes are rejected: session and CSRF tokens must carry at least
// 256 bits of entropy.
func Token(byteLen int) (string, error) {
	if byteLen < MinTokenBytes {
		return "", ErrTokenTooShort
	}

	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Sign computes the HMAC-SHA256 of data under secret, hex encoded.
// Used for fingerprint derivation and CSRF token hashing; the output is
// deterministic per (secret, data) pair.
func Sign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// Equal compares two strings in constant time. Differing lengths return
// false immediately; length is not secret since it cannot be hidden without
// padding. All secret-vs-secret comparisons in this module go through this
// function, never ==.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Keys holds the server-side signing secrets loaded at startup.
type Keys struct {
	// Session signs device fingerprints and session cookies.
	Session string
	// CSRF hashes anti-forgery tokens at rest.
	CSRF string
}

// Load resolves the signing secrets from cfg. A missing secret is a fatal
// configuration error in production. Outside production the placeholder
// secret is substituted and a loud warning is logged, so a weakened
// deployment is never silent.
func Load(cfg Config, log *slog.Logger) (Keys, error) {
	if log == nil {
		log = slog.Default()
	}

	keys := Keys{
		Session: cfg.SessionSecret,
		CSRF:    cfg.CSRFSecret,
	}

	if keys.Session == "" {
		if cfg.Production {
			return Keys{}, errors.Join(ErrMissingSecret, errors.New("SESSION_SECRET is required in production"))
		}
		log.Warn("SESSION_SECRET is not set, falling back to an insecure placeholder; every session is forgeable",
			slog.String("secret", "placeholder"))
		keys.Session = devPlaceholderSecret
	}

	if keys.CSRF == "" {
		if cfg.Production {
			return Keys{}, errors.Join(ErrMissingSecret, errors.New("CSRF_SECRET is required in production"))
		}
		log.Warn("CSRF_SECRET is not set, falling back to an insecure placeholder; CSRF tokens are forgeable",
			slog.String("secret", "placeholder"))
		keys.CSRF = devPlaceholderSecret
	}

	return keys, nil
}

// MustLoad is Load that panics on error. Intended for process startup where
// a missing production secret must abort boot.
func MustLoad(cfg Config, log *slog.Logger) Keys {
	keys, err := Load(cfg, log)
	if err != nil {
		panic(err)
	}
	return keys
}
