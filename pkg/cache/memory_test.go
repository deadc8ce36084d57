package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehubapp/lifehub/pkg/cache"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

		got, ok := c.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		_, ok := c.Get(ctx, "absent")
		assert.False(t, ok)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, ok := c.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
		require.NoError(t, c.Delete(ctx, "a", "b"))

		_, ok := c.Get(ctx, "a")
		assert.False(t, ok)
		_, ok = c.Get(ctx, "b")
		assert.False(t, ok)
	})

	t.Run("stored value is copied", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		val := []byte("original")
		require.NoError(t, c.Set(ctx, "k", val, time.Minute))
		val[0] = 'X'

		got, ok := c.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte("original"), got)
	})
}
