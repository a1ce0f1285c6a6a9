package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCache(rdb, "test:"), mr
}

func TestRedisCache_SetGetInvalidate(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "listings")
	assert.False(t, ok)

	c.Set(ctx, "listings", []byte(`[{"id":1}]`), time.Minute)
	b, ok := c.Get(ctx, "listings")
	require.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, string(b))

	c.Invalidate(ctx, "listings")
	_, ok = c.Get(ctx, "listings")
	assert.False(t, ok)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "listings", []byte("x"), time.Second)
	mr.FastForward(2 * time.Second)

	_, ok := c.Get(ctx, "listings")
	assert.False(t, ok)
}

func TestRedisCache_Prefixing(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	assert.True(t, mr.Exists("test:k"))
}

func TestNoopCache(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
