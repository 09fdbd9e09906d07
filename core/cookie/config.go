package cookie

import (
	"net/http"
	"strings"
)

// Config provides environment-based configuration for the cookie manager.
type Config struct {
	Secrets  string        `env:"COOKIE_SECRETS" envDefault:""`
	Path     string        `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	// Production forces the Secure attribute on regardless of COOKIE_SECURE,
	// so a production deployment can never emit credentials over plain HTTP
	// by omission. Shares the flag that makes missing secrets fatal.
	Production bool `env:"APP_ENV_PRODUCTION" envDefault:"false"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"` // SameSiteLaxMode
	MaxSize  int           `env:"COOKIE_MAX_SIZE" envDefault:"4096"`

	SessionCookieName string `env:"COOKIE_SESSION_NAME" envDefault:"__session"`
	CSRFCookieName    string `env:"COOKIE_CSRF_NAME" envDefault:"csrf_token"`
}

// DefaultConfig returns a Config with secure defaults.
func DefaultConfig() Config {
	return Config{
		Path:              "/",
		Secure:            false,
		SameSite:          http.SameSiteLaxMode,
		MaxSize:           MaxCookieSize,
		SessionCookieName: DefaultSessionCookie,
		CSRFCookieName:    DefaultCSRFCookie,
	}
}

// parseSecrets splits comma-separated secrets for key rotation support.
// Empty strings are filtered out to prevent cryptographic vulnerabilities.
func (c Config) parseSecrets() []string {
	if c.Secrets == "" {
		return nil
	}

	parts := strings.Split(c.Secrets, ",")
	secrets := make([]string, 0, len(parts))

	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			secrets = append(secrets, s)
		}
	}

	return secrets
}

// NewFromConfig creates a Manager from configuration.
// Only non-zero config values override defaults to preserve secure settings.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := make([]Option, 0)

	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.Secure || cfg.Production {
		configOpts = append(configOpts, WithSecure(true))
	}
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}

	// User-provided options override config
	configOpts = append(configOpts, opts...)

	managerOpts := []ManagerOption{
		WithSessionCookieName(cfg.SessionCookieName),
		WithCSRFCookieName(cfg.CSRFCookieName),
	}
	if cfg.MaxSize > 0 {
		managerOpts = append(managerOpts, WithMaxSize(cfg.MaxSize))
	}

	return NewWithOptions(cfg.parseSecrets(), configOpts, managerOpts...)
}
