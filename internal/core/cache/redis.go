package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// genTTL bounds how long a generation counter outlives its last invalidation.
// It must exceed the slowest load.
const genTTL = 24 * time.Hour

var errStaleLoad = errors.New("cache: key invalidated during load")

// Cache is a read-through cache. Redis failures are logged and treated as misses.
//
// Every key has a generation counter bumped by Invalidate. A load records the
// generation before reading the source and only stores its result if the
// generation is unchanged, so a write that lands mid-load is never overwritten
// by the pre-write value.
type Cache struct {
	RDB    *redis.Client
	Prefix string
	log    *zap.Logger
	sf     singleflight.Group
}

func New(addr, pass string, db int, prefix string, l *zap.Logger) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), prefix, l)
}

func NewWithClient(rdb *redis.Client, prefix string, l *zap.Logger) *Cache {
	if l == nil {
		l = zap.NewNop()
	}
	return &Cache{RDB: rdb, Prefix: prefix, log: l}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func genKey(full string) string { return full + ":gen" }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	k := c.key(key)
	b, err := c.RDB.Get(ctx, k).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warn("cache get failed", zap.String("key", k), zap.Error(err))
	}
	// concurrent misses on the same key share one load
	v, err, _ := c.sf.Do(k, func() (any, error) {
		gen, genErr := c.generation(ctx, k)
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if genErr != nil {
			c.log.Warn("cache generation read failed", zap.String("key", k), zap.Error(genErr))
			return b, nil
		}
		if e := c.setIfGeneration(ctx, k, gen, b, ttl); e != nil {
			if errors.Is(e, errStaleLoad) || errors.Is(e, redis.TxFailedErr) {
				c.log.Debug("cache set skipped, key invalidated during load", zap.String("key", k))
			} else {
				c.log.Warn("cache set failed", zap.String("key", k), zap.Error(e))
			}
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) generation(ctx context.Context, full string) (string, error) {
	g, err := c.RDB.Get(ctx, genKey(full)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return g, err
}

// setIfGeneration stores b under full only while its generation still equals gen.
func (c *Cache) setIfGeneration(ctx context.Context, full, gen string, b []byte, ttl time.Duration) error {
	gk := genKey(full)
	return c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, full, b, ttl)
			return nil
		})
		return err
	}, gk)
}

// Invalidate drops keys and bumps their generations so in-flight loads do not
// repopulate them.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			full := c.key(k)
			p.Incr(ctx, genKey(full))
			p.Expire(ctx, genKey(full), genTTL)
			p.Del(ctx, full)
		}
		return nil
	})
	return err
}
