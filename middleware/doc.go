// Package middleware provides net/http middleware for the authentication
// and abuse-prevention stack.
//
// The middlewares compose in a fixed order:
//
//	mux := http.NewServeMux()
//	// ... register handlers ...
//
//	var handler http.Handler = mux
//	handler = middleware.CSRF(middleware.CSRFConfig{Manager: csrfMgr})(handler)
//	handler = middleware.Session(middleware.SessionConfig{Transport: transport})(handler)
//	handler = middleware.RateLimit(middleware.RateLimitConfig{Limiter: limiter, SetHeaders: true})(handler)
//
// RateLimit runs first so abusive traffic is shed before any session
// lookup. Session resolves credentials and stashes the result in the
// request context; CSRF then validates state-changing requests against
// the resolved session. RequireAuth and RequireRole gate individual
// routes:
//
//	mux.Handle("/admin/", middleware.RequireRole(session.RoleAdmin)(adminHandler))
//	mux.Handle("/dashboard", middleware.RequireAuth(dashboardHandler))
//
// Handlers read the session with middleware.GetSession(r.Context()).
//
// Login endpoints compose the lockout tracker directly instead of going
// through middleware, since the gate runs both before and after the
// credential check:
//
//	decision, err := tracker.Check(ctx, email)
//	if err != nil || !decision.Allowed {
//		// Locked out: surface decision.LockUntil to the user.
//		return
//	}
//	if !credentialsVerified {
//		tracker.RecordFailure(ctx, email)
//		return
//	}
//	tracker.Clear(ctx, email)
//	sess, err := transport.Login(w, r, identity)
package middleware
