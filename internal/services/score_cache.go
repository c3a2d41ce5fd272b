package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/buildrun-tech/unihub/backend/internal/config"
	"github.com/buildrun-tech/unihub/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Cache is the explicit cache used for professor aggregates. Invalidation
// happens in the write path (new evaluation), not only by TTL expiry, so the
// interface keeps Delete next to Get/Set instead of hiding eviction in
// configuration.
type Cache interface {
	// Get unmarshals the cached value for key into dest and reports whether
	// the key was present and fresh.
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
	Delete(ctx context.Context, keys ...string)
	// Stop releases the backend: the eviction goroutine for the in-memory
	// cache, the client connection for redis. Safe to call more than once.
	Stop()
}

// NewCache builds the configured cache backend: Redis when enabled, a
// process-local TTL cache otherwise.
func NewCache(cfg *config.CacheConfig) Cache {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).
				Msg("redis unreachable, falling back to in-memory cache")
			return newMemoryCache(ttl)
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("score cache backed by redis")
		return &redisCache{client: client, ttl: ttl}
	}
	return newMemoryCache(ttl)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Msg("cache delete failed")
	}
}

func (c *redisCache) Stop() {
	if err := c.client.Close(); err != nil {
		logger.Warn().Err(err).Msg("redis close failed")
	}
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// memoryCache is the single-process fallback. Values round-trip through JSON
// so both backends behave identically.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	done    chan struct{}
	stop    sync.Once
}

func newMemoryCache(ttl time.Duration) *memoryCache {
	c := &memoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.evictLoop()
	return c
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) bool {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return false
	}
	return json.Unmarshal(entry.data, dest) == nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

func (c *memoryCache) Stop() {
	c.stop.Do(func() { close(c.done) })
}

func (c *memoryCache) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
