package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	cacheMu sync.RWMutex
	cache   = make(map[reflect.Type]any)
)

// Load parses environment variables into cfg based on its env struct tags.
// The first call in the process loads a .env file if one exists; parse
// results are cached per concrete type, so repeated loads of the same type
// return identical values without re-reading the environment.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil target")
	}

	dotenvOnce.Do(func() {
		// Missing .env is the normal case outside development.
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)

	cacheMu.RLock()
	cached, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	cacheMu.Lock()
	// First writer wins so concurrent loaders observe one consistent value.
	if existing, ok := cache[key]; ok {
		*cfg = existing.(T)
	} else {
		cache[key] = *cfg
	}
	cacheMu.Unlock()

	return nil
}

// MustLoad is Load that panics on failure. Intended for process startup
// where a malformed environment must abort boot.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
