package data

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

const redisKeyPrefix = "ta:bars:"

// RedisCacheConfig configures the Redis cache.
type RedisCacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache shares loaded bars between processes, one JSON string per request key.
type RedisCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewRedisCache connects and pings the server.
func NewRedisCache(cfg RedisCacheConfig) (*RedisCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.NewCacheError("redis", "connect", fmt.Errorf("redis ping: %w", err))
	}

	log.Printf("[redis-cache] connected to %s", cfg.Addr)
	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

// Name identifies the backend
func (c *RedisCache) Name() string {
	return "redis"
}

// Get retrieves data from cache if available
func (c *RedisCache) Get(ctx context.Context, key string) ([]types.OHLCV, bool, error) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheError("redis", "get", err)
	}

	bars, err := decodeBars(payload)
	if err != nil {
		return nil, false, apperrors.NewCacheError("redis", "decode", err)
	}
	return bars, true, nil
}

// Set stores data with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, data []types.OHLCV) error {
	payload, err := encodeBars(data)
	if err != nil {
		return apperrors.NewCacheError("redis", "encode", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		return apperrors.NewCacheError("redis", "set", err)
	}
	return nil
}

// Clear removes every key written by this cache
func (c *RedisCache) Clear(ctx context.Context) error {
	keys, err := c.keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.NewCacheError("redis", "clear", err)
	}
	return nil
}

// Size returns the number of cached entries
func (c *RedisCache) Size(ctx context.Context) (int, error) {
	keys, err := c.keys(ctx)
	return len(keys), err
}

func (c *RedisCache) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.NewCacheError("redis", "scan", err)
	}
	return keys, nil
}

// Close closes the client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
