package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores finished reports. Keys combine the batch id with the icon
// table digest, see Service.cacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (Report, bool, error)
	Set(ctx context.Context, key string, report Report) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Report, bool, error) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Report{}, false, nil
	}
	if err != nil {
		return Report{}, false, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, false, err
	}
	return report, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, report Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKey(key), data, c.ttl).Err()
}

func redisKey(key string) string {
	return "analysis:" + key
}
