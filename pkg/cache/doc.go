// Package cache provides a small key-value cache abstraction with TTL
// support, backed by Redis in production and by an in-process map in tests.
//
// The contract is deliberately forgiving: a backend failure on read is a
// cache miss, never an error, so callers always fall through to their
// primary data source. Writers that mutate the cached state own the
// corresponding invalidation (see svc/entitlement).
package cache
