package ghost

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// CacheType represents the type of cache backend.
type CacheType string

const (
	// CacheTypeNone represents no caching.
	CacheTypeNone CacheType = "none"

	// CacheTypeMemory represents in-memory cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeRedis represents a Redis cache shared between processes.
	CacheTypeRedis CacheType = "redis"

	// CacheTypeNATS represents NATS KV cache.
	CacheTypeNATS CacheType = "nats"
)

// ParseCacheType validates a cache type name.
func ParseCacheType(name string) (CacheType, error) {
	switch cacheType := CacheType(name); cacheType {
	case CacheTypeNone, CacheTypeMemory, CacheTypeRedis, CacheTypeNATS:
		return cacheType, nil
	case "":
		return CacheTypeNone, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCacheType, name)
	}
}

// CacheConfig configures cache backend.
type CacheConfig struct {
	// Type is the cache backend type
	Type CacheType

	// Memory configures the memory backend, or the local tier in front of redis and nats.
	// Nil disables the local tier.
	Memory *MemoryCacheConfig

	// Redis cache configuration
	Redis *RedisCacheConfig

	// NATS KV cache configuration
	NATS *NATSKVConfig

	// Policy decides which responses are cached. If nil, DefaultCachingPolicy() is used.
	Policy *CachingPolicy

	// Common options applied to any backend. If nil, DefaultCacheOptions() is used.
	Options *CacheOptions
}

// MemoryCacheConfig configures memory cache.
type MemoryCacheConfig struct {
	// MaxSize is the maximum number of items in the cache
	MaxSize int

	// CleanupInterval is the interval for cleaning up expired entries
	CleanupInterval string // Duration string like "1m", "5s"
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeMemory,
		Memory: &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: "1m",
		},
		Options: DefaultCacheOptions(),
	}
}

// NewCacheFromConfig creates a cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		return NewMemoryCacheFromConfig(config.Memory)

	case CacheTypeRedis:
		if config.Redis == nil {
			return nil, ErrRedisConfigRequired
		}

		shared, err := NewRedisCache(config.Redis)
		if err != nil {
			return nil, err
		}

		return withLocalTier(config.Memory, shared)

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		shared, err := NewNATSKVCache(config.NATS)
		if err != nil {
			return nil, err
		}

		return withLocalTier(config.Memory, shared)

	case CacheTypeNone, "":
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// withLocalTier fronts a shared backend with a memory tier when memory is configured.
func withLocalTier(memory *MemoryCacheConfig, shared Cache) (Cache, error) {
	if memory == nil {
		return shared, nil
	}

	local, err := NewMemoryCacheFromConfig(memory)
	if err != nil {
		if closer, ok := shared.(io.Closer); ok {
			_ = closer.Close()
		}

		return nil, err
	}

	return NewTieredCache(local, shared), nil
}

// NewMemoryCacheFromConfig creates a memory cache from configuration.
func NewMemoryCacheFromConfig(config *MemoryCacheConfig) (Cache, error) {
	if config == nil {
		config = &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: "1m",
		}
	}

	cleanup := constants.DefaultCacheCleanupInterval

	if config.CleanupInterval != "" {
		parsed, err := time.ParseDuration(config.CleanupInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid cleanup interval %q: %w", config.CleanupInterval, err)
		}

		cleanup = parsed
	}

	return NewMemoryCacheWithCleanup(config.MaxSize, cleanup), nil
}

// NoOpCache is a cache that does nothing (no caching).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always returns an error (nothing cached).
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has always returns false.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}

// TieredCache serves reads from a process-local tier before falling back to a
// shared backend. Writes and deletes go to both tiers; a shared hit refills the
// local tier with the same expiry.
type TieredCache struct {
	local  Cache
	shared Cache
}

// NewTieredCache puts local in front of shared.
func NewTieredCache(local, shared Cache) *TieredCache {
	return &TieredCache{local: local, shared: shared}
}

// Get implements Cache.Get.
func (c *TieredCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	entry, err := c.local.Get(ctx, key)
	if err == nil {
		return entry, nil
	}

	entry, err = c.shared.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	_ = c.local.Set(ctx, key, entry)

	return entry, nil
}

// Set implements Cache.Set. The shared tier decides the result.
func (c *TieredCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	_ = c.local.Set(ctx, key, entry)

	return c.shared.Set(ctx, key, entry)
}

// Delete implements Cache.Delete.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	_ = c.local.Delete(ctx, key)

	return c.shared.Delete(ctx, key)
}

// Clear implements Cache.Clear.
func (c *TieredCache) Clear(ctx context.Context) error {
	_ = c.local.Clear(ctx)

	return c.shared.Clear(ctx)
}

// Has implements Cache.Has.
func (c *TieredCache) Has(ctx context.Context, key string) bool {
	return c.local.Has(ctx, key) || c.shared.Has(ctx, key)
}

// Close releases the shared tier's connection.
func (c *TieredCache) Close() error {
	if closer, ok := c.shared.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
