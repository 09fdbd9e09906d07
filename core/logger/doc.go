// Package logger provides structured logging helpers built on Go's standard
// slog package: a set of type-safe attribute constructors for the fields
// this module logs, with nil-safe zero values.
//
// # Usage
//
//	log.Warn("session fingerprint mismatch",
//		logger.SecurityEvent("session_hijack_suspected"),
//		logger.UserID(sess.UserID),
//		logger.Role(string(sess.Role)),
//	)
//
// Helpers return an empty slog.Attr for zero inputs (nil error, empty
// string, uuid.Nil) so callers never need explicit nil checks.
//
// Security-audit events carry the "security_event" key, letting audit
// pipelines separate hijack detection from routine session expiry logging.
package logger
