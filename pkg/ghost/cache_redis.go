package ghost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// ErrRedisConfigRequired is returned when the redis cache type is selected without settings.
var ErrRedisConfigRequired = errors.New("redis configuration required for redis cache")

const redisScanCount = 100

// RedisCacheConfig configures the Redis cache backend.
type RedisCacheConfig struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// RedisCache shares cached responses across processes through Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil || config.Addr == "" {
		return nil, ErrRedisConfigRequired
	}

	dialTimeout := config.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = constants.DefaultHTTPTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Username:    config.Username,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	err := client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheFromClient(client, config.KeyPrefix), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = constants.DefaultCacheBucket
	}

	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}

// Get returns a live entry.
func (c *RedisCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading redis cache: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(data, &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding redis cache entry: %w", err)
	}

	if entry.Expired(time.Now()) {
		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry with a Redis TTL matching its expiry.
func (c *RedisCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	var ttl time.Duration

	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			return c.Delete(ctx, key)
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding redis cache entry: %w", err)
	}

	err = c.client.Set(ctx, c.key(key), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("writing redis cache: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.key(key)).Err()
	if err != nil {
		return fmt.Errorf("deleting from redis cache: %w", err)
	}

	return nil
}

// Clear removes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", redisScanCount).Iterator()

	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			return fmt.Errorf("clearing redis cache: %w", err)
		}
	}

	err := iter.Err()
	if err != nil {
		return fmt.Errorf("scanning redis cache: %w", err)
	}

	return nil
}

// Has reports whether the key exists.
func (c *RedisCache) Has(ctx context.Context, key string) bool {
	count, err := c.client.Exists(ctx, c.key(key)).Result()

	return err == nil && count > 0
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
