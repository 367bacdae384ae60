package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunViewCacheContract verifies that a ViewCache adheres to the interface contract.
// The cache must be empty when passed in.
func RunViewCacheContract(t *testing.T, cache ViewCache) {
	ctx := context.Background()

	t.Run("Miss", func(t *testing.T) {
		html, ok, err := cache.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, html)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "card?title=a", "<div>a</div>"))
		html, ok, err := cache.Get(ctx, "card?title=a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "<div>a</div>", html)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "card?title=a", "<div>b</div>"))
		html, _, err := cache.Get(ctx, "card?title=a")
		require.NoError(t, err)
		assert.Equal(t, "<div>b</div>", html)
	})

	t.Run("Empty markup is a hit", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "empty", ""))
		_, ok, err := cache.Get(ctx, "empty")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Purge", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "other", "<p></p>"))
		require.NoError(t, cache.Purge(ctx))
		for _, key := range []string{"card?title=a", "empty", "other"} {
			_, ok, err := cache.Get(ctx, key)
			require.NoError(t, err)
			assert.False(t, ok, "key %q should be purged", key)
		}
	})
}
