// Package sessiontransport bridges the transport-agnostic session manager
// to HTTP cookies.
//
// The transport owns three responsibilities the session core deliberately
// does not: reading the signed session cookie, deriving the device
// fingerprint from request headers, and keeping browser credentials in
// sync with server-side state. Token and fingerprint always travel
// together into validation; a valid token from the wrong device is
// rejected as a suspected hijack.
//
// # Usage
//
//	transport, err := sessiontransport.NewCookie(sessionMgr, cookieMgr, keys.Session)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Login endpoint, after verifying credentials:
//	sess, err := transport.Login(w, r, session.Identity{
//		UserID: user.ID,
//		Email:  user.Email,
//		Role:   session.RoleParticipant,
//	})
//
//	// Per-request resolution (usually via middleware.Session):
//	sess, err := transport.Load(w, r)
//	if err != nil {
//		// Rejections have already cleared the browser's cookies.
//	}
//
//	// Logout endpoints:
//	transport.Logout(w, r)
//	transport.LogoutEverywhere(w, r)
//
// Load collapses all rejection reasons into cookie clearing plus an error
// the caller can log; none of the reasons should be echoed to the client.
package sessiontransport
