package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	// MaxCookieSize is the maximum size for a cookie (4KB).
	MaxCookieSize = 4096
	// minSecretLength guards against weak HMAC keys.
	minSecretLength = 32

	// DefaultSessionCookie carries the session token. HttpOnly always:
	// scripts must never read it.
	DefaultSessionCookie = "__session"
	// DefaultCSRFCookie carries the anti-forgery token for scripts to echo
	// back in the X-CSRF-Token header. Deliberately script-readable.
	DefaultCSRFCookie = "csrf_token"
)

// Manager handles HTTP cookie operations with HMAC signing and the two
// credential channels the authentication flow needs: a script-inaccessible
// session cookie and a script-readable CSRF cookie.
type Manager struct {
	secrets     []string
	defaults    Options
	maxSize     int
	sessionName string
	csrfName    string
}

// ManagerOption configures the Manager itself (not individual cookies).
type ManagerOption func(*Manager)

// WithMaxSize sets the maximum cookie size.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// WithSessionCookieName overrides the session cookie name.
func WithSessionCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.sessionName = name
		}
	}
}

// WithCSRFCookieName overrides the CSRF cookie name.
func WithCSRFCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.csrfName = name
		}
	}
}

// New creates a cookie manager. Multiple secrets enable key rotation:
// signing always uses the first secret, verification tries all of them.
func New(secrets []string, opts ...Option) (*Manager, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	for i := range len(secrets) {
		if len(secrets[i]) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(secrets[i]), minSecretLength)
		}
	}

	// Secure defaults
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	defaults = applyOptions(defaults, opts)

	return &Manager{
		secrets:     secrets,
		defaults:    defaults,
		maxSize:     MaxCookieSize,
		sessionName: DefaultSessionCookie,
		csrfName:    DefaultCSRFCookie,
	}, nil
}

// NewWithOptions creates a cookie manager with additional manager options.
func NewWithOptions(secrets []string, cookieOpts []Option, managerOpts ...ManagerOption) (*Manager, error) {
	m, err := New(secrets, cookieOpts...)
	if err != nil {
		return nil, err
	}

	for _, opt := range managerOpts {
		opt(m)
	}

	return m, nil
}

// Set stores a cookie value.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	header := cookie.String()
	if len(header) > m.maxSize {
		return ErrCookieTooLarge{
			Name: name,
			Size: len(header),
			Max:  m.maxSize,
		}
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get retrieves a cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete removes a cookie. The attribute set mirrors Set so browsers match
// the clearing cookie to the original.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
}

// SetSigned stores a value with an HMAC signature appended. Tampered or
// forged cookies fail verification before any store lookup happens.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned retrieves and verifies a signed cookie value.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

// SetSession writes the session token as a signed, script-inaccessible
// cookie. maxAge tracks the record's sliding expiry, so callers re-issue
// the cookie whenever a refresh extends it.
func (m *Manager) SetSession(w http.ResponseWriter, token string, maxAge time.Duration) error {
	return m.SetSigned(w, m.sessionName, token,
		WithMaxAge(int(maxAge.Seconds())),
		WithHTTPOnly(true),
	)
}

// GetSession reads and verifies the session token from the request.
func (m *Manager) GetSession(r *http.Request) (string, error) {
	return m.GetSigned(r, m.sessionName)
}

// ClearSession removes the session cookie.
func (m *Manager) ClearSession(w http.ResponseWriter) {
	m.Delete(w, m.sessionName, WithHTTPOnly(true))
}

// SetCSRF writes the anti-forgery token where page scripts can read it and
// echo it back in the X-CSRF-Token header. Unsigned on purpose: the value
// is verified server-side against its stored hash, and scripts need the
// raw token.
func (m *Manager) SetCSRF(w http.ResponseWriter, token string, maxAge time.Duration) error {
	return m.Set(w, m.csrfName, token,
		WithMaxAge(int(maxAge.Seconds())),
		WithHTTPOnly(false),
	)
}

// ClearCSRF removes the CSRF cookie.
func (m *Manager) ClearCSRF(w http.ResponseWriter) {
	m.Delete(w, m.csrfName, WithHTTPOnly(false))
}

// ClearCredentials removes both credential cookies. Called on every
// session rejection and on logout.
func (m *Manager) ClearCredentials(w http.ResponseWriter) {
	m.ClearSession(w)
	m.ClearCSRF(w)
}

// sign creates an HMAC signature for the value.
func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, []byte(m.secrets[0]))
	mac.Write([]byte(value))
	signature := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(value)) + "|" + signature
}

// verify checks the HMAC signature of a signed value.
func (m *Manager) verify(signed string) (string, error) {
	parts := strings.SplitN(signed, "|", 2)
	if len(parts) != 2 {
		return "", ErrInvalidFormat
	}

	encodedValue, signature := parts[0], parts[1]

	value, err := base64.URLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}

	// Try all secrets for key rotation support
	validIndex := slices.IndexFunc(m.secrets, func(secret string) bool {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(value)
		expectedSig := base64.URLEncoding.EncodeToString(mac.Sum(nil))
		return subtle.ConstantTimeCompare([]byte(signature), []byte(expectedSig)) == 1
	})

	if validIndex >= 0 {
		return string(value), nil
	}

	return "", ErrInvalidSignature
}
