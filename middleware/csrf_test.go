package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdayhq/authkit/core/cookie"
	"github.com/hackdayhq/authkit/core/session"
	"github.com/hackdayhq/authkit/middleware"
)

// csrfToken extracts the script-readable token the login flow issued.
func csrfToken(t *testing.T, r *http.Request) string {
	t.Helper()
	c, err := r.Cookie(cookie.DefaultCSRFCookie)
	require.NoError(t, err)
	return c.Value
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestCSRFMiddleware(t *testing.T) {
	t.Parallel()

	newProtected := func(st stack) http.Handler {
		return middleware.Session(middleware.SessionConfig{Transport: st.transport})(
			middleware.CSRF(middleware.CSRFConfig{Manager: st.csrf})(okHandler()),
		)
	}

	t.Run("safe methods pass without token", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		_, request := login(t, st, session.RoleParticipant)
		handler := newProtected(st)

		for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, request(method, "/page"))
			assert.Equal(t, http.StatusOK, w.Code, method)
		}
	})

	t.Run("unsafe method with valid token passes", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		_, request := login(t, st, session.RoleParticipant)
		handler := newProtected(st)

		r := request(http.MethodPost, "/projects")
		r.Header.Set(middleware.DefaultCSRFHeader, csrfToken(t, r))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("form field fallback for plain html forms", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		_, request := login(t, st, session.RoleParticipant)
		handler := newProtected(st)

		token := csrfToken(t, request(http.MethodGet, "/"))
		body := strings.NewReader("csrf_token=" + url.QueryEscape(token))

		template := request(http.MethodPost, "/projects")
		r := httptest.NewRequest(http.MethodPost, "/projects", body)
		r.Header = template.Header.Clone()
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token fails closed", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		_, request := login(t, st, session.RoleParticipant)
		handler := newProtected(st)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, request(http.MethodPost, "/projects"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong token fails closed", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		_, request := login(t, st, session.RoleParticipant)
		handler := newProtected(st)

		r := request(http.MethodPost, "/projects")
		r.Header.Set(middleware.DefaultCSRFHeader, "forged-token-value")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("token from another session fails closed", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		_, victimRequest := login(t, st, session.RoleParticipant)
		_, attackerRequest := login(t, st, session.RoleParticipant)
		handler := newProtected(st)

		// Attacker's session presenting the victim's token.
		r := attackerRequest(http.MethodPost, "/projects")
		r.Header.Set(middleware.DefaultCSRFHeader, csrfToken(t, victimRequest(http.MethodGet, "/")))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unauthenticated unsafe request fails closed", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		handler := newProtected(st)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/projects", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("skip bypasses enforcement", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		handler := middleware.CSRF(middleware.CSRFConfig{
			Manager: st.csrf,
			Skip:    func(r *http.Request) bool { return r.URL.Path == "/webhooks" },
		})(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom header name", func(t *testing.T) {
		t.Parallel()

		st := newStack(t)
		_, request := login(t, st, session.RoleParticipant)
		handler := middleware.Session(middleware.SessionConfig{Transport: st.transport})(
			middleware.CSRF(middleware.CSRFConfig{Manager: st.csrf, HeaderName: "X-Requested-Token"})(okHandler()),
		)

		r := request(http.MethodPost, "/projects")
		r.Header.Set("X-Requested-Token", csrfToken(t, r))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
