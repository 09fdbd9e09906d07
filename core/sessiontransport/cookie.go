package sessiontransport

import (
	"errors"
	"net/http"
	"time"

	"github.com/hackdayhq/authkit/core/cookie"
	"github.com/hackdayhq/authkit/core/session"
	"github.com/hackdayhq/authkit/pkg/fingerprint"
)

// Cookie bridges the transport-agnostic session manager to HTTP. It reads
// the signed session cookie, derives the device fingerprint from the
// request, and keeps the browser's credential cookies synchronized with
// server-side session state: any rejection clears them, any login sets
// both channels.
type Cookie struct {
	sessions *session.Manager
	cookies  *cookie.Manager
	secret   string
	fpOpts   []fingerprint.Option
}

// NewCookie creates the cookie transport. secret keys the device
// fingerprint HMAC; fpOpts tune which request headers feed it.
func NewCookie(sessions *session.Manager, cookies *cookie.Manager, secret string, fpOpts ...fingerprint.Option) (*Cookie, error) {
	if sessions == nil || cookies == nil {
		return nil, ErrMissingDependency
	}
	if secret == "" {
		return nil, ErrMissingSecret
	}

	return &Cookie{
		sessions: sessions,
		cookies:  cookies,
		secret:   secret,
		fpOpts:   fpOpts,
	}, nil
}

// Fingerprint derives the device fingerprint for the request.
func (c *Cookie) Fingerprint(r *http.Request) string {
	return fingerprint.Generate(r, c.secret, c.fpOpts...)
}

// Load resolves the request's session. Every rejection clears the
// credential cookies so the browser stops presenting dead or compromised
// tokens; the specific rejection reason is still returned for logging.
func (c *Cookie) Load(w http.ResponseWriter, r *http.Request) (session.Session, error) {
	token, err := c.cookies.GetSession(r)
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			return session.Session{}, session.ErrNoSession
		}
		// Tampered or garbage cookie: treat like no session, drop it.
		c.cookies.ClearCredentials(w)
		return session.Session{}, session.ErrNoSession
	}

	sess, err := c.sessions.Validate(r.Context(), token, c.Fingerprint(r))
	if err != nil {
		if session.IsRejection(err) {
			c.cookies.ClearCredentials(w)
		}
		return session.Session{}, err
	}

	// Keep the browser's cookie lifetime synced with the server-side
	// sliding expiry, which validation may have just extended.
	if err := c.cookies.SetSession(w, sess.Token, time.Until(sess.ExpiresAt)); err != nil {
		return session.Session{}, err
	}

	return sess, nil
}

// Login creates a session for the verified identity and delivers both
// credentials: the signed HttpOnly session cookie, living as long as the
// sliding expiry (Load re-extends it on refresh), and the script-readable
// CSRF cookie, living until the session's absolute ceiling.
func (c *Cookie) Login(w http.ResponseWriter, r *http.Request, identity session.Identity) (session.Session, error) {
	sess, csrfToken, err := c.sessions.Create(r.Context(), identity, c.Fingerprint(r))
	if err != nil {
		return session.Session{}, err
	}

	if err := c.cookies.SetSession(w, sess.Token, time.Until(sess.ExpiresAt)); err != nil {
		_ = c.sessions.Destroy(r.Context(), sess.Token)
		return session.Session{}, err
	}
	if err := c.cookies.SetCSRF(w, csrfToken, time.Until(sess.AbsoluteExpiresAt)); err != nil {
		_ = c.sessions.Destroy(r.Context(), sess.Token)
		c.cookies.ClearCredentials(w)
		return session.Session{}, err
	}

	return sess, nil
}

// Logout destroys the current session and clears both credential cookies.
// Safe to call without a session.
func (c *Cookie) Logout(w http.ResponseWriter, r *http.Request) error {
	defer c.cookies.ClearCredentials(w)

	token, err := c.cookies.GetSession(r)
	if err != nil {
		return nil
	}

	return c.sessions.Destroy(r.Context(), token)
}

// LogoutEverywhere validates the current session, then terminates every
// session of its user across all partitions. The current browser's
// cookies are cleared along with the rest.
func (c *Cookie) LogoutEverywhere(w http.ResponseWriter, r *http.Request) error {
	sess, err := c.Load(w, r)
	if err != nil {
		return err
	}

	defer c.cookies.ClearCredentials(w)
	return c.sessions.DestroyAllForUser(r.Context(), sess.UserID)
}
