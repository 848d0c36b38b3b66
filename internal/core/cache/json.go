package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// GetOrLoadJSON caches load's result as JSON. A nil result is cached as "null"
// and returned as (nil, nil). An entry that no longer decodes into T is dropped
// and served from load instead.
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	var fresh *T
	loaded := false
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		fresh, loaded = v, true
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	if loaded {
		return fresh, nil
	}
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		c.log.Warn("cache entry undecodable, dropping", zap.String("key", c.key(key)), zap.Error(e))
		if e := c.Invalidate(ctx, key); e != nil {
			c.log.Warn("cache invalidation failed", zap.String("key", c.key(key)), zap.Error(e))
		}
		return load(ctx)
	}
	return &out, nil
}
