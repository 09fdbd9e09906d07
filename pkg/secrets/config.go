package secrets

// Config provides environment-based configuration for signing secrets.
type Config struct {
	SessionSecret string `env:"SESSION_SECRET" envDefault:""`
	CSRFSecret    string `env:"CSRF_SECRET" envDefault:""`
	// Production governs whether missing secrets abort startup.
	Production bool `env:"APP_ENV_PRODUCTION" envDefault:"false"`
}
