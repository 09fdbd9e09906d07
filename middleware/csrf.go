package middleware

import (
	"net/http"

	"github.com/hackdayhq/authkit/core/csrf"
)

const (
	// DefaultCSRFHeader is the request header carrying the anti-forgery token.
	DefaultCSRFHeader = "X-CSRF-Token"
	// DefaultCSRFField is the form field fallback for plain HTML forms
	// that cannot set custom headers.
	DefaultCSRFField = "csrf_token"
)

// CSRFConfig configures the anti-forgery middleware.
type CSRFConfig struct {
	// Manager validates presented tokens against their stored hashes.
	Manager *csrf.Manager
	// HeaderName overrides the token header (default: X-CSRF-Token).
	HeaderName string
	// FieldName overrides the form field fallback (default: csrf_token).
	FieldName string
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
}

// CSRF enforces anti-forgery tokens on state-changing requests. Safe
// methods (GET, HEAD, OPTIONS, TRACE) pass through; everything else must
// carry the session's token in the X-CSRF-Token header or the csrf_token
// form field. Missing, empty, expired, and wrong tokens all fail closed
// with 403.
//
// Place after Session: validation is keyed by the authenticated session.
// Unauthenticated unsafe requests are rejected here too, since no session
// means no token could legitimately have been issued.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.Manager == nil {
		panic("csrf middleware: manager is required")
	}
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultCSRFHeader
	}
	fieldName := cfg.FieldName
	if fieldName == "" {
		fieldName = DefaultCSRFField
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			sess, ok := GetSession(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			token := r.Header.Get(headerName)
			if token == "" {
				// Plain HTML forms cannot set headers.
				token = r.PostFormValue(fieldName)
			}

			if err := cfg.Manager.Validate(r.Context(), sess.Token, token); err != nil {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isSafeMethod reports whether the method is defined as safe by RFC 9110
// and therefore exempt from anti-forgery checks.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
