package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// typeCache stores parsed configuration structs keyed by their type name,
// so every package sees the same instance regardless of load order.
type typeCache struct {
	mu     sync.RWMutex
	values map[string]any
}

var (
	cache = &typeCache{values: make(map[string]any)}

	dotenvOnce sync.Once
)

// Load parses environment variables into the given configuration struct.
// Each configuration type is parsed once per process; subsequent calls for
// the same type return the cached copy. A .env file in the working directory
// is loaded on first use if present.
//
// Example:
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		// Missing .env is fine: production relies on real env vars.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	name := typeName[T]()

	cache.mu.RLock()
	if cached, ok := cache.values[name]; ok {
		*v = cached.(T)
		cache.mu.RUnlock()
		return nil
	}
	cache.mu.RUnlock()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	cache.mu.Lock()
	// Another goroutine may have parsed the same type concurrently; the
	// values are identical either way, keep the first one stored.
	if cached, ok := cache.values[name]; ok {
		*v = cached.(T)
	} else {
		cache.values[name] = *v
	}
	cache.mu.Unlock()

	return nil
}

// MustLoad is Load that panics on failure. Use for configuration the
// application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load %s: %v", typeName[T](), err))
	}
}

func typeName[T any]() string {
	t := reflect.TypeOf(*new(T))
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
