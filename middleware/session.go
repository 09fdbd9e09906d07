package middleware

import (
	"context"
	"net/http"

	"github.com/hackdayhq/authkit/core/session"
	"github.com/hackdayhq/authkit/core/sessiontransport"
)

type sessionCtxKey struct{}

// GetSession returns the authenticated session stashed by the Session
// middleware. The second return is false on unauthenticated requests.
func GetSession(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(session.Session)
	return sess, ok
}

// SessionConfig configures the session resolution middleware.
type SessionConfig struct {
	// Transport resolves and synchronizes browser credentials.
	Transport *sessiontransport.Cookie
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
}

// Session resolves the request's session and stashes it in the request
// context. Requests without a valid session continue unauthenticated:
// public pages still render, and RequireAuth gates the protected ones.
// Every rejection has already cleared the browser's credential cookies by
// the time the handler runs.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := cfg.Transport.Load(w, r)
			if err != nil {
				// All rejection reasons collapse to "unauthenticated";
				// the specific reason was already logged server-side.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401. Place after
// Session in the chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSession(r.Context()); !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests whose session role is not in the allowed
// set. Unauthenticated requests get 401, wrong-role requests get 403.
func RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	allowed := make(map[session.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !allowed[sess.Role] {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
