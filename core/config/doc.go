// Package config provides type-safe environment variable loading with
// caching. Each configuration type is loaded once and cached for subsequent
// calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	type SessionConfig struct {
//		TTL           time.Duration `env:"SESSION_TTL" envDefault:"1h"`
//		AbsoluteTTL   time.Duration `env:"SESSION_ABSOLUTE_TTL" envDefault:"24h"`
//		SessionSecret string        `env:"SESSION_SECRET,required"`
//	}
//
//	func main() {
//		var cfg SessionConfig
//
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime;
// later loads of the same type return the cached value. Different types are
// cached independently.
package config
