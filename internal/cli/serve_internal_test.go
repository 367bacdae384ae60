package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	c, closer, err := newCache(ctx, ServeOptions{})
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, closer())

	c, _, err = newCache(ctx, ServeOptions{Cache: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Cache{}, c)

	_, _, err = newCache(ctx, ServeOptions{Cache: "disk"})
	assert.ErrorContains(t, err, "unknown cache")
}

func TestNewCache_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	require.NoError(t, mr.Set(redis.DefaultPrefix+"stale", "<p>old</p>"))

	c, closer, err := newCache(context.Background(), ServeOptions{Cache: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer closer()
	assert.IsType(t, &redis.Cache{}, c)
	assert.False(t, mr.Exists(redis.DefaultPrefix+"stale"), "startup should purge stale markup")
}
