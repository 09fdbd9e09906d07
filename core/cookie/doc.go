// Package cookie provides HMAC-signed HTTP cookies plus the two credential
// channels the authentication flow uses.
//
// The session token travels in a signed, HttpOnly cookie so page scripts
// can never read it; the CSRF token travels in a deliberately
// script-readable cookie so the frontend can echo it back in the
// X-CSRF-Token header on state-changing requests. Splitting the channels
// this way means a successful XSS can steal the CSRF token but never the
// session itself.
//
// # Basic Usage
//
//	manager, err := cookie.New([]string{os.Getenv("COOKIE_SECRETS")})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Login: deliver both credentials.
//	manager.SetSession(w, sess.Token, 24*time.Hour)
//	manager.SetCSRF(w, csrfToken, 24*time.Hour)
//
//	// Request handling: read and verify the session token.
//	token, err := manager.GetSession(r)
//
//	// Logout or any session rejection: clear both.
//	manager.ClearCredentials(w)
//
// # Key Rotation
//
// Pass multiple secrets to enable rotation: signing always uses the first
// secret while verification tries each in turn, so cookies signed with a
// retiring key keep validating until they expire.
//
//	manager, err := cookie.New([]string{newSecret, oldSecret})
//
// # Environment Configuration
//
//	cfg, _ := config.Load[cookie.Config]()
//	manager, err := cookie.NewFromConfig(cfg)
//
// Set COOKIE_SECURE=true in production so credential cookies are only sent
// over HTTPS.
package cookie
