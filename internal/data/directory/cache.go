package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cachedClient struct {
	next  Client
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedClient keeps successful lookups in Redis for ttl. Cache failures fall
// through to next; misses and lookup errors are never cached.
func NewCachedClient(next Client, rdb *redis.Client, ttl time.Duration, log *zap.Logger) Client {
	return &cachedClient{
		next:  next,
		redis: rdb,
		ttl:   ttl,
		log:   log.With(zap.String("client", "directory_cache")),
	}
}

func (c *cachedClient) GetShop(ctx context.Context, shopID int64) (*Shop, error) {
	return cached(ctx, c, fmt.Sprintf("directory:shop:%d", shopID), func() (*Shop, error) {
		return c.next.GetShop(ctx, shopID)
	})
}

func (c *cachedClient) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	return cached(ctx, c, fmt.Sprintf("directory:service:%d", serviceID), func() (*Service, error) {
		return c.next.GetService(ctx, serviceID)
	})
}

func (c *cachedClient) GetEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	return cached(ctx, c, fmt.Sprintf("directory:employee:%d", employeeID), func() (*Employee, error) {
		return c.next.GetEmployee(ctx, employeeID)
	})
}

func cached[T any](ctx context.Context, c *cachedClient, key string, load func() (*T, error)) (*T, error) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			return &v, nil
		}
		c.log.Warn("Dropping undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("Directory cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(v); err == nil {
		if err := c.redis.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Warn("Directory cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return v, nil
}
