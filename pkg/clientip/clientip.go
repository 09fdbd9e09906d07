package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Proxy headers in priority order. CDN-injected headers are checked before
// generic proxy headers because they are harder for clients to spoof.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP extracts the real client IP address from the request, checking
// proxy headers in priority order before falling back to RemoteAddr.
// X-Forwarded-For lists are resolved to the leftmost (original client)
// entry. All candidates are validated and normalized; if nothing valid is
// found the raw RemoteAddr host is returned.
func GetIP(r *http.Request) string {
	for _, header := range proxyHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// X-Forwarded-For may carry "client, proxy1, proxy2".
		candidate, _, _ := strings.Cut(value, ",")
		if ip := normalize(candidate); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if ip := normalize(host); ip != "" {
		return ip
	}

	return r.RemoteAddr
}

// normalize validates and canonicalizes an IP candidate. Returns "" for
// invalid input and for 0.0.0.0, which signals "no valid client IP".
func normalize(candidate string) string {
	ip := net.ParseIP(strings.TrimSpace(candidate))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
