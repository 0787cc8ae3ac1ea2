// Package cache stores pipeline results keyed by image content and operation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironsheep/imagetext/internal/pipeline"
	"github.com/ironsheep/imagetext/internal/transform"
)

const keyPrefix = "imagetext:result:"

// Cache looks up and stores results. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*pipeline.Result, error)
	Set(ctx context.Context, key string, res *pipeline.Result) error
	Close() error
}

// Key derives the cache key from the raw image bytes and the operation.
func Key(image []byte, op transform.Operation) string {
	sum := sha256.Sum256(image)
	return keyPrefix + hex.EncodeToString(sum[:]) + ":" + op.String()
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*pipeline.Result, error) { return nil, nil }
func (NopCache) Set(context.Context, string, *pipeline.Result) error   { return nil }
func (NopCache) Close() error                                           { return nil }

// RedisCache keeps JSON-encoded results in Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redisURL (redis://host:port/db) and pings it.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*pipeline.Result, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}

	var res pipeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return &res, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, res *pipeline.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
