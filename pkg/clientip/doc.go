// Package clientip extracts real client IP addresses from HTTP requests.
//
// It handles the common proxy headers in priority order to determine the
// actual client address, which this module uses for rate-limit keying and
// security logging behind proxies, load balancers, and CDNs.
//
// Header priority:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry)
//  4. X-Real-IP (nginx and other proxies)
//  5. RemoteAddr (direct connection)
//
// All addresses are validated with net.ParseIP and normalized; 0.0.0.0 is
// rejected as "no valid client IP". GetIP never panics and always returns
// something usable as a map key, falling back to the raw RemoteAddr.
package clientip
