package healthcheck

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/hackdayhq/authkit/core/logger"
)

// Handler creates a health check handler that can serve as both a liveness
// and readiness probe depending on the provided dependency functions.
//
// When no dependency functions are provided, it acts as a liveness probe
// and returns "ALIVE" to indicate the process is running.
//
// When dependency functions are provided, it acts as a readiness probe and
// executes each in sequence. All session, CSRF, rate-limit, and lockout
// stores expose a compatible Healthcheck method:
//
//	mux.Handle("/health/live", healthcheck.Handler(log))
//	mux.Handle("/health/ready", healthcheck.Handler(log,
//		sessionStore.Healthcheck,
//		limiterStore.Healthcheck,
//	))
func Handler(log *slog.Logger, fn ...func(context.Context) error) http.Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(fn) == 0 {
			w.Write([]byte("ALIVE"))
			return
		}

		for _, f := range fn {
			if err := f(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}

		w.Write([]byte("READY"))
	})
}
