package cache

import (
	"context"
	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/hashicorp/golang-lru/v2"
	"sync"
	"time"
)

type ResponseCacheEntry struct {
	Data      string // Store the serialized response body
	ExpiresAt time.Time
}

// ResponseCache memoizes rendered API responses keyed by request signature
type ResponseCache struct {
	lru   *lru.Cache[string, *ResponseCacheEntry]
	ttl   time.Duration
	clock clock
	mu    sync.RWMutex
}

func NewResponseCache(cfg *config.CacheConfig) (*ResponseCache, error) {
	lruCache, err := lru.New[string, *ResponseCacheEntry](cfg.ResponseLRUSize)
	if err != nil {
		return nil, err
	}

	return &ResponseCache{
		lru:   lruCache,
		ttl:   cfg.GetResponseLRUTTL(),
		clock: &systemClock{},
	}, nil
}

func (c *ResponseCache) Add(_ context.Context, key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if body, ok := value.(string); ok {
		c.lru.Add(key, &ResponseCacheEntry{
			Data:      body,
			ExpiresAt: c.clock.Now().Add(c.ttl),
		})
	}
}

func (c *ResponseCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}

	if c.clock.Now().After(entry.ExpiresAt) {
		c.lru.Remove(key)
		return nil, false
	}

	return entry.Data, true
}

func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
