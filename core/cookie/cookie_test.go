package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdayhq/authkit/core/cookie"
)

const testSecret = "test-secret-that-is-long-enough-for-hmac"

func newManager(t *testing.T, opts ...cookie.Option) *cookie.Manager {
	t.Helper()
	m, err := cookie.New([]string{testSecret}, opts...)
	require.NoError(t, err)
	return m
}

// responseCookie returns the named Set-Cookie from the recorded response.
func responseCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set in response", name)
	return nil
}

// requestWithCookies builds a request carrying every cookie the recorded
// response set.
func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty secrets", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.New([]string{"", ""})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.New([]string{"too-short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestSetGet(t *testing.T) {
	t.Parallel()

	t.Run("round-trip", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "theme", "dark"))

		got, err := m.Get(requestWithCookies(w), "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", got)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := m.Get(r, "absent")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("oversized value", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		err := m.Set(w, "big", strings.Repeat("x", cookie.MaxCookieSize))

		var tooLarge cookie.ErrCookieTooLarge
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, "big", tooLarge.Name)
	})
}

func TestSigned(t *testing.T) {
	t.Parallel()

	t.Run("round-trip", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "uid", "user-123"))

		// Wire value is not the plaintext.
		raw := responseCookie(t, w, "uid")
		assert.NotEqual(t, "user-123", raw.Value)

		got, err := m.GetSigned(requestWithCookies(w), "uid")
		require.NoError(t, err)
		assert.Equal(t, "user-123", got)
	})

	t.Run("tampered value fails verification", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "uid", "user-123"))

		raw := responseCookie(t, w, "uid")
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "uid", Value: "forged|" + strings.SplitN(raw.Value, "|", 2)[1]})

		_, err := m.GetSigned(r, "uid")
		assert.Error(t, err)
	})

	t.Run("garbage format", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "uid", Value: "no-separator-here"})

		_, err := m.GetSigned(r, "uid")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("rotated secret still verifies", func(t *testing.T) {
		t.Parallel()

		oldManager := newManager(t)
		w := httptest.NewRecorder()
		require.NoError(t, oldManager.SetSigned(w, "uid", "user-123"))

		newSecret := "rotated-secret-also-long-enough-for-hmac"
		rotated, err := cookie.New([]string{newSecret, testSecret})
		require.NoError(t, err)

		got, err := rotated.GetSigned(requestWithCookies(w), "uid")
		require.NoError(t, err)
		assert.Equal(t, "user-123", got)
	})

	t.Run("unknown secret fails", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "uid", "user-123"))

		other, err := cookie.New([]string{"completely-different-secret-of-enough-len"})
		require.NoError(t, err)

		_, err = other.GetSigned(requestWithCookies(w), "uid")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})
}

func TestSessionChannel(t *testing.T) {
	t.Parallel()

	t.Run("session cookie is signed and script-inaccessible", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSession(w, "session-token", 24*time.Hour))

		raw := responseCookie(t, w, cookie.DefaultSessionCookie)
		assert.True(t, raw.HttpOnly)
		assert.NotEqual(t, "session-token", raw.Value)

		got, err := m.GetSession(requestWithCookies(w))
		require.NoError(t, err)
		assert.Equal(t, "session-token", got)
	})

	t.Run("csrf cookie is plaintext and script-readable", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		require.NoError(t, m.SetCSRF(w, "csrf-token-value", 24*time.Hour))

		raw := responseCookie(t, w, cookie.DefaultCSRFCookie)
		assert.False(t, raw.HttpOnly)
		assert.Equal(t, "csrf-token-value", raw.Value)
	})

	t.Run("clear credentials expires both cookies", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		w := httptest.NewRecorder()
		m.ClearCredentials(w)

		sess := responseCookie(t, w, cookie.DefaultSessionCookie)
		csrf := responseCookie(t, w, cookie.DefaultCSRFCookie)
		assert.Equal(t, -1, sess.MaxAge)
		assert.Equal(t, -1, csrf.MaxAge)
		assert.Empty(t, sess.Value)
		assert.Empty(t, csrf.Value)
	})

	t.Run("custom cookie names", func(t *testing.T) {
		t.Parallel()

		m, err := cookie.NewWithOptions([]string{testSecret}, nil,
			cookie.WithSessionCookieName("hd_session"),
			cookie.WithCSRFCookieName("hd_csrf"),
		)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSession(w, "tok", time.Hour))
		require.NoError(t, m.SetCSRF(w, "csrf", time.Hour))

		responseCookie(t, w, "hd_session")
		responseCookie(t, w, "hd_csrf")
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("builds manager from config", func(t *testing.T) {
		t.Parallel()

		cfg := cookie.DefaultConfig()
		cfg.Secrets = testSecret + ", " + "secondary-secret-with-sufficient-length"
		cfg.Secure = true

		m, err := cookie.NewFromConfig(cfg)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSession(w, "tok", time.Hour))
		raw := responseCookie(t, w, cookie.DefaultSessionCookie)
		assert.True(t, raw.Secure)
	})

	t.Run("production forces secure cookies", func(t *testing.T) {
		t.Parallel()

		cfg := cookie.DefaultConfig()
		cfg.Secrets = testSecret
		cfg.Secure = false
		cfg.Production = true

		m, err := cookie.NewFromConfig(cfg)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSession(w, "tok", time.Hour))
		require.NoError(t, m.SetCSRF(w, "csrf", time.Hour))

		assert.True(t, responseCookie(t, w, cookie.DefaultSessionCookie).Secure)
		assert.True(t, responseCookie(t, w, cookie.DefaultCSRFCookie).Secure)
	})

	t.Run("requires secrets", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.NewFromConfig(cookie.DefaultConfig())
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}
