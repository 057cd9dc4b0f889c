package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "dc:"

// Cache is a best-effort redis cache. Redis failures are logged and the
// loader is used instead; they never fail the caller.
type Cache struct {
	client *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func New(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

func ReferenceKey(kind string, id uint64) string {
	return fmt.Sprintf("%sref:%s:%d", keyPrefix, kind, id)
}

// QueryKey names a cached query result. The scope is kept readable so it can
// be invalidated by pattern; params are hashed.
func QueryKey(scope string, params any) string {
	raw, _ := json.Marshal(params)
	sum := sha1.Sum(raw)
	return fmt.Sprintf("%sq:%s:%s", keyPrefix, scope, hex.EncodeToString(sum[:8]))
}

// QueryPattern matches every cached query under scope.
func QueryPattern(scope string) string {
	return fmt.Sprintf("%sq:%s:*", keyPrefix, scope)
}

// GetOrLoad returns the cached value at key or calls load once per key across
// concurrent callers and caches a non-null result for ttl.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if c == nil || c.client == nil {
		return load(ctx)
	}

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(loaded); err == nil && string(data) != "null" {
			if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
				c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// InvalidatePattern deletes every key matching pattern using SCAN.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) int {
	if c == nil || c.client == nil {
		return 0
	}
	if !strings.HasPrefix(pattern, keyPrefix) {
		pattern = keyPrefix + pattern
	}

	removed := 0
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			c.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		}
		removed += int(n)
		batch = batch[:0]
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
	return removed
}
