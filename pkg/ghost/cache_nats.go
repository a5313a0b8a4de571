package ghost

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// ErrNATSConfigRequired is returned when the nats cache type is selected without settings.
var ErrNATSConfigRequired = errors.New("NATS configuration required for NATS cache")

// NATSKVConfig configures the NATS JetStream key-value cache backend.
type NATSKVConfig struct {
	// URL of the NATS server. Ignored when Conn is set.
	URL string
	// Conn reuses an existing connection.
	Conn *nats.Conn
	// Bucket is the key-value bucket name.
	Bucket string
	// TTL is the bucket wide maximum age of an entry.
	TTL time.Duration
	// Timeout bounds connecting and bucket creation.
	Timeout time.Duration
}

// NATSKVCache shares cached responses through a JetStream key-value bucket.
type NATSKVCache struct {
	conn     *nats.Conn
	kv       jetstream.KeyValue
	ownsConn bool
}

// NewNATSKVCache connects and creates or updates the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil || (config.URL == "" && config.Conn == nil) {
		return nil, ErrNATSConfigRequired
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	conn := config.Conn
	ownsConn := false

	if conn == nil {
		var err error

		conn, err = nats.Connect(config.URL, nats.Name("ghostctl"), nats.Timeout(timeout))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}

		ownsConn = true
	}

	js, err := jetstream.New(conn)
	if err != nil {
		if ownsConn {
			conn.Close()
		}

		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = constants.DefaultCacheBucket
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "ghostctl admin API response cache",
		TTL:         ttl,
	})
	if err != nil {
		if ownsConn {
			conn.Close()
		}

		return nil, fmt.Errorf("failed to create key-value bucket %s: %w", bucket, err)
	}

	return &NATSKVCache{conn: conn, kv: kv, ownsConn: ownsConn}, nil
}

// natsKey maps an arbitrary cache key onto the key-value key alphabet.
func natsKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// Get returns a live entry.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kve, err := c.kv.Get(ctx, natsKey(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading NATS cache: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kve.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding NATS cache entry: %w", err)
	}

	if entry.Expired(time.Now()) {
		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding NATS cache entry: %w", err)
	}

	_, err = c.kv.Put(ctx, natsKey(key), data)
	if err != nil {
		return fmt.Errorf("writing NATS cache: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(ctx, natsKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting from NATS cache: %w", err)
	}

	return nil
}

// Clear purges every key of the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	lister, err := c.kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil
		}

		return fmt.Errorf("listing NATS cache keys: %w", err)
	}

	defer func() { _ = lister.Stop() }()

	for key := range lister.Keys() {
		err = c.kv.Purge(ctx, key)
		if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
			return fmt.Errorf("clearing NATS cache: %w", err)
		}
	}

	return nil
}

// Has reports whether a live entry exists.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close closes the connection when the cache opened it.
func (c *NATSKVCache) Close() error {
	if c.ownsConn {
		c.conn.Close()
	}

	return nil
}
