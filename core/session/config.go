package session

import (
	"errors"
	"time"
)

// Config holds session lifecycle timings.
type Config struct {
	// TTL is the sliding expiry extended by refresh.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	// AbsoluteTTL is the hard ceiling measured from creation, never
	// extended.
	AbsoluteTTL time.Duration `env:"SESSION_ABSOLUTE_TTL" envDefault:"24h"`
	// RefreshThreshold is how close to the sliding expiry a validation
	// must be before the expiry is extended.
	RefreshThreshold time.Duration `env:"SESSION_REFRESH_THRESHOLD" envDefault:"15m"`
}

// DefaultConfig returns the standard timings: one hour sliding, 24 hour
// absolute, refresh within 15 minutes of expiry.
func DefaultConfig() Config {
	return Config{
		TTL:              time.Hour,
		AbsoluteTTL:      24 * time.Hour,
		RefreshThreshold: 15 * time.Minute,
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if c.TTL <= 0 || c.AbsoluteTTL <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("ttl and absolute ttl must be positive"))
	}
	if c.AbsoluteTTL < c.TTL {
		return errors.Join(ErrInvalidConfig, errors.New("absolute ttl must not be shorter than ttl"))
	}
	if c.RefreshThreshold < 0 || c.RefreshThreshold > c.TTL {
		return errors.Join(ErrInvalidConfig, errors.New("refresh threshold must be within [0, ttl]"))
	}
	return nil
}
