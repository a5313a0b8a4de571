package ghost

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// Cache is a response cache backend.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is a cached response body. It never holds request headers.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry has passed its expiry.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// CacheOptions are applied to any backend.
type CacheOptions struct {
	TTL         time.Duration
	MaxSize     int
	EnableETags bool
	KeyPrefix   string
}

// DefaultCacheOptions returns default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:         constants.DefaultCacheTTL,
		MaxSize:     constants.DefaultCacheSize,
		EnableETags: true,
		KeyPrefix:   constants.DefaultCacheBucket,
	}
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits          int64 `json:"hits"          yaml:"hits"`
	Misses        int64 `json:"misses"        yaml:"misses"`
	Sets          int64 `json:"sets"          yaml:"sets"`
	Invalidations int64 `json:"invalidations" yaml:"invalidations"`
}

// GetHitRate returns hits divided by lookups.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// MemoryCache is an in-process cache backed by go-cache.
type MemoryCache struct {
	items   *gocache.Cache
	maxSize int
	mu      sync.Mutex
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	return NewMemoryCacheWithCleanup(maxSize, constants.DefaultCacheCleanupInterval)
}

// NewMemoryCacheWithCleanup creates a memory cache with a custom janitor interval.
func NewMemoryCacheWithCleanup(maxSize int, cleanupInterval time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		items:   gocache.New(gocache.NoExpiration, cleanupInterval),
		maxSize: maxSize,
	}
}

// Get returns a live entry.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	value, ok := c.items.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	entry, ok := value.(*CacheEntry)
	if !ok {
		c.items.Delete(key)

		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired(time.Now()) {
		c.items.Delete(key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry, evicting the entry closest to expiry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items.Get(key); !exists && c.items.ItemCount() >= c.maxSize {
		c.evictOne()
	}

	ttl := gocache.NoExpiration
	if !entry.ExpiresAt.IsZero() {
		if remaining := time.Until(entry.ExpiresAt); remaining > 0 {
			ttl = remaining
		}
	}

	c.items.Set(key, entry, ttl)

	return nil
}

func (c *MemoryCache) evictOne() {
	var (
		victim string
		oldest time.Time
	)

	for key, item := range c.items.Items() {
		entry, ok := item.Object.(*CacheEntry)
		if !ok || entry.ExpiresAt.IsZero() {
			continue
		}

		if victim == "" || entry.ExpiresAt.Before(oldest) {
			victim, oldest = key, entry.ExpiresAt
		}
	}

	if victim == "" {
		for key := range c.items.Items() {
			victim = key

			break
		}
	}

	c.items.Delete(victim)
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.items.Delete(key)

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.items.Flush()

	return nil
}

// Has reports whether a live entry exists.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Cleanup drops expired entries.
func (c *MemoryCache) Cleanup() {
	c.items.DeleteExpired()

	now := time.Now()
	for key, item := range c.items.Items() {
		if entry, ok := item.Object.(*CacheEntry); ok && entry.Expired(now) {
			c.items.Delete(key)
		}
	}
}

// Len returns the number of stored entries, including expired ones not yet cleaned up.
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}

// CacheManager wraps a backend with key building, statistics and per-resource invalidation.
type CacheManager struct {
	cache   Cache
	options *CacheOptions

	hits          atomic.Int64
	misses        atomic.Int64
	sets          atomic.Int64
	invalidations atomic.Int64

	mu   sync.Mutex
	keys map[string]map[string]struct{}
}

// NewCacheManager creates a cache manager. A nil cache disables caching.
func NewCacheManager(cache Cache, options *CacheOptions) *CacheManager {
	if cache == nil {
		cache = NewNoOpCache()
	}

	if options == nil {
		options = DefaultCacheOptions()
	}

	return &CacheManager{
		cache:   cache,
		options: options,
		keys:    make(map[string]map[string]struct{}),
	}
}

// GetCacheKey builds "METHOD:path[:k=v&...]" with sorted parameters.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	key := method + ":" + path
	if len(params) == 0 {
		return key
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}

	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+params[name])
	}

	return key + ":" + strings.Join(pairs, "&")
}

// Get returns cached data for key.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.misses.Add(1)

		return nil, err
	}

	m.hits.Add(1)

	return entry.Data, nil
}

// Set stores data under key. A non-positive ttl uses the configured default.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data and its ETag under key.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.options.TTL
	}

	if !m.options.EnableETags {
		etag = ""
	}

	err := m.cache.Set(ctx, key, &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      etag,
	})
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}

	m.sets.Add(1)
	m.track(key)

	return nil
}

// Delete removes key.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	return m.cache.Delete(ctx, key)
}

// Clear removes every entry of the backend.
func (m *CacheManager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.keys = make(map[string]map[string]struct{})
	m.mu.Unlock()

	return m.cache.Clear(ctx)
}

// InvalidateResource removes the entries this manager stored for a resource collection,
// e.g. "posts" after a post was created.
func (m *CacheManager) InvalidateResource(ctx context.Context, resource string) error {
	m.mu.Lock()
	keys := m.keys[resource]
	delete(m.keys, resource)
	m.mu.Unlock()

	var lastErr error

	for key := range keys {
		err := m.cache.Delete(ctx, key)
		if err != nil {
			lastErr = err
		}
	}

	if len(keys) > 0 {
		m.invalidations.Add(1)
	}

	return lastErr
}

// Close closes the backend when it holds a connection, e.g. Redis or NATS.
func (m *CacheManager) Close() error {
	if closer, ok := m.cache.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// GetStats returns a snapshot of cache statistics.
func (m *CacheManager) GetStats() *CacheStats {
	return &CacheStats{
		Hits:          m.hits.Load(),
		Misses:        m.misses.Load(),
		Sets:          m.sets.Load(),
		Invalidations: m.invalidations.Load(),
	}
}

func (m *CacheManager) track(key string) {
	resource := ResourceFromPath(pathOfKey(key))
	if resource == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.keys[resource] == nil {
		m.keys[resource] = make(map[string]struct{})
	}

	m.keys[resource][key] = struct{}{}
}

func pathOfKey(key string) string {
	_, rest, found := strings.Cut(key, ":")
	if !found {
		return key
	}

	path, _, _ := strings.Cut(rest, ":")

	return path
}

// ResourceFromPath returns the collection segment of an admin path, e.g. "posts" for "/posts/abc/".
func ResourceFromPath(path string) string {
	path = strings.TrimPrefix(path, constants.AdminAPIPath)
	path = strings.Trim(path, "/")

	resource, _, _ := strings.Cut(path, "/")

	return resource
}

// CachingPolicy decides which responses are cached.
type CachingPolicy struct {
	CacheGET     bool
	CachePOST    bool
	CacheErrors  bool
	TTL          time.Duration
	IncludePaths []string
	ExcludePaths []string
}

// DefaultCachingPolicy caches successful GETs except for volatile endpoints.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:     true,
		TTL:          constants.DefaultCacheTTL,
		ExcludePaths: []string{"/users/me/", "/themes/", "/images/"},
	}
}

// ShouldCache reports whether a response may be cached.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	switch method {
	case "GET":
		if !p.CacheGET {
			return false
		}
	case "POST":
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if (statusCode < 200 || statusCode >= 300) && !p.CacheErrors {
		return false
	}

	for _, excluded := range p.ExcludePaths {
		if strings.HasPrefix(path, excluded) {
			return false
		}
	}

	if len(p.IncludePaths) == 0 {
		return true
	}

	for _, included := range p.IncludePaths {
		if strings.HasPrefix(path, included) {
			return true
		}
	}

	return false
}
