package providers

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/robinjoseph08/golib/logger"
)

// Cache stores raw provider responses. Implementations treat their own
// failures as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

const (
	defaultMemoryCacheMaxEntries = 10000
	memoryCacheSweepInterval     = time.Minute
)

// MemoryCache is a process-local Cache. Expired entries are dropped when
// they're read and swept on writes at most once a minute. When the cache is
// full, the entry closest to expiring makes room for the new one.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:    map[string]memoryEntry{},
		maxEntries: defaultMemoryCacheMaxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	_, replacing := c.entries[key]
	full := !replacing && len(c.entries) >= c.maxEntries
	if full || now.Sub(c.lastSweep) >= memoryCacheSweepInterval {
		c.sweep(now)
	}
	if !replacing && len(c.entries) >= c.maxEntries {
		c.evictSoonest()
	}

	c.entries[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.lastSweep = now
}

func (c *MemoryCache) evictSoonest() {
	var (
		soonestKey string
		soonest    time.Time
	)
	for key, entry := range c.entries {
		if soonestKey == "" || entry.expiresAt.Before(soonest) {
			soonestKey, soonest = key, entry.expiresAt
		}
	}
	delete(c.entries, soonestKey)
}

const defaultRedisKeyPrefix = "catalog:provider:"

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache shares provider responses between processes.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to connect to redis")
	}

	return NewRedisCacheWithClient(client, ""), nil
}

// NewRedisCacheWithClient wraps an existing client. An empty keyPrefix uses
// the default one.
func NewRedisCacheWithClient(client *redis.Client, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = defaultRedisKeyPrefix
	}
	return &RedisCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Err(err).Warn("provider cache read failed", logger.Data{"key": key})
		}
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Warn("provider cache write failed", logger.Data{"key": key})
	}
}

func (c *RedisCache) Close() error {
	return errors.WithStack(c.client.Close())
}
