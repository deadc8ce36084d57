package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache over a shared Redis client with an optional
// key prefix, so multiple subsystems can share one Redis database without
// key collisions.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache wraps the given client. Prefix may be empty; when set it is
// prepended to every key as "<prefix>:<key>".
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if client == nil {
		panic("cache: redis client is required")
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		// redis.Nil and transport errors are both treated as a miss; the
		// caller falls through to the primary data source either way.
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return errors.Join(ErrSetFailed, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}
