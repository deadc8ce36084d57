package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value by key. The second return value reports whether
	// the key was present. Backend failures are reported as a miss so that
	// callers degrade to the underlying data source.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value under key for the given TTL. A non-positive TTL
	// stores the value without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// NoOp disables caching; every Get is a miss and writes are discarded.
// Useful for tests and for running without Redis.
type NoOp struct{}

func (NoOp) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (NoOp) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error { return nil }

func (NoOp) Delete(ctx context.Context, keys ...string) error { return nil }
