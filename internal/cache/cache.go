package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a bounded TTL key/value store for read endpoints. Serving data
// up to one TTL stale is acceptable; entries carry no correctness invariant.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

// RedisCache implements Cache on a shared Redis instance. All failures
// degrade to cache misses; the backing store remains the source of truth.
type RedisCache struct {
	Rdb    *redis.Client
	Prefix string
}

func NewRedisCache(rdb *redis.Client, prefix string) *RedisCache {
	return &RedisCache{Rdb: rdb, Prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	return c.Prefix + k
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.Rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.Rdb.Set(ctx, c.key(key), value, ttl)
}

func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	c.Rdb.Del(ctx, full...)
}

// Noop is used when no Redis URL is configured (e.g. tests that do not
// exercise caching).
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool)                  { return nil, false }
func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}
func (Noop) Invalidate(ctx context.Context, keys ...string)                       {}
