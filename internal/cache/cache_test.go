//go:build unit

package cache

import (
	"cms-dashboard/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(config.CacheConfig{FilePath: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache(t *testing.T) {
	t.Run("miss returns nil", func(t *testing.T) {
		c := newTestCache(t)
		v, err := c.Get("missing")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		c := newTestCache(t)
		require.NoError(t, c.Set("k", []byte("v"), time.Minute))
		v, err := c.Get("k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), v)

		require.NoError(t, c.Delete("k"))
		v, err = c.Get("k")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("expired items are dropped", func(t *testing.T) {
		c := newTestCache(t)
		now := time.Unix(1_700_000_000, 0)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set("old", []byte("1"), time.Second))
		require.NoError(t, c.Set("fresh", []byte("2"), time.Hour))

		now = now.Add(time.Minute)
		v, err := c.Get("old")
		require.NoError(t, err)
		assert.Nil(t, v)

		require.NoError(t, c.Set("stale", []byte("3"), time.Second))
		now = now.Add(time.Minute)
		n, err := c.PurgeExpired()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		v, err = c.Get("fresh")
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), v)
	})
}
