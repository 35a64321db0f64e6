package cache

import (
	"context"
	"fmt"
	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aloftwx/aloft/backend-go/internal/observability"
	"github.com/hashicorp/golang-lru/v2"
	"sync/atomic"
	"time"
)

// LRUCacheEntry wraps the cached data with metadata
type LRUCacheEntry struct {
	Data      *models.SoundingRecord
	ExpiresAt time.Time
}

// LRUCacheService provides a two-layer caching system using LRU and DynamoDB
type LRUCacheService struct {
	lru          *lru.Cache[string, *LRUCacheEntry]
	dynamoCache  *DynamoSoundingCache
	ttl          time.Duration
	clock        clock
	lruHits      uint64
	lruMisses    uint64
	dynamoHits   uint64
	dynamoMisses uint64

	// Metrics may be nil; the observe helpers tolerate that.
	Metrics *observability.Metrics
}

// NewCacheService creates a new cache service with both LRU and DynamoDB caching
func NewCacheService(ctx context.Context, config *config.CacheConfig) (*LRUCacheService, error) {
	lruSize := config.SoundingLRUSize
	ttl := config.GetSoundingLRUTTL()

	// Initialize DynamoDB client
	dynamoClient, err := NewDynamoClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB client: %w", err)
	}

	// Create LRU cache
	lruCache, err := lru.New[string, *LRUCacheEntry](lruSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &LRUCacheService{
		lru:         lruCache,
		dynamoCache: NewDynamoSoundingCache(dynamoClient, config),
		ttl:         ttl,
		clock:       &systemClock{},
	}, nil
}

// getCacheKey generates a unique cache key for a site and model cycle
func getCacheKey(siteID string, modelCycle string) string {
	return fmt.Sprintf("%s:%s", siteID, modelCycle)
}

// GetSoundings tries to get a sounding record first from LRU cache, then from DynamoDB
func (c *LRUCacheService) GetSoundings(ctx context.Context, siteID string, model string, cycle time.Time) (*models.SoundingRecord, error) {
	modelCycle := models.ModelCycleKey(model, cycle)
	key := getCacheKey(siteID, modelCycle)
	// Try LRU cache first
	if entry, ok := c.lru.Get(key); ok {
		if c.clock.Now().Before(entry.ExpiresAt) {
			atomic.AddUint64(&c.lruHits, 1)
			c.Metrics.ObserveCacheLookup("lru", "hit")
			return entry.Data, nil
		}
		// Entry expired, remove it
		c.lru.Remove(key)
	}
	atomic.AddUint64(&c.lruMisses, 1)
	c.Metrics.ObserveCacheLookup("lru", "miss")

	// Try DynamoDB cache
	record, err := c.dynamoCache.GetSoundings(ctx, siteID, modelCycle)
	if err != nil {
		return nil, fmt.Errorf("getting soundings from DynamoDB: %w", err)
	}

	if record != nil {
		atomic.AddUint64(&c.dynamoHits, 1)
		c.Metrics.ObserveCacheLookup("dynamo", "hit")
		// Cache hit in DynamoDB, store in LRU cache
		c.lru.Add(key, &LRUCacheEntry{
			Data:      record,
			ExpiresAt: c.clock.Now().Add(c.ttl),
		})
		return record, nil
	}
	atomic.AddUint64(&c.dynamoMisses, 1)
	c.Metrics.ObserveCacheLookup("dynamo", "miss")

	return nil, nil
}

// SaveSoundings saves a sounding record to both LRU and DynamoDB caches
func (c *LRUCacheService) SaveSoundings(ctx context.Context, record models.SoundingRecord) error {
	key := getCacheKey(record.SiteID, record.ModelCycle)

	// Save to LRU cache
	c.lru.Add(key, &LRUCacheEntry{
		Data:      &record,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})

	// Save to DynamoDB
	if err := c.dynamoCache.SaveSoundings(ctx, record); err != nil {
		return fmt.Errorf("saving soundings to DynamoDB: %w", err)
	}

	return nil
}

// SaveSoundingsBatch saves multiple sounding records to both caches
func (c *LRUCacheService) SaveSoundingsBatch(ctx context.Context, records []models.SoundingRecord) error {
	// Save to LRU cache
	for _, record := range records {
		// Create a copy of the record
		recordCopy := record

		key := getCacheKey(record.SiteID, record.ModelCycle)
		c.lru.Add(key, &LRUCacheEntry{
			Data:      &recordCopy,
			ExpiresAt: c.clock.Now().Add(c.ttl),
		})
	}

	// Save to DynamoDB
	if err := c.dynamoCache.SaveSoundingsBatch(ctx, records); err != nil {
		return fmt.Errorf("saving soundings batch to DynamoDB: %w", err)
	}

	return nil
}

// GetCacheStats returns statistics about cache hits and misses
func (c *LRUCacheService) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      atomic.LoadUint64(&c.lruHits),
		"lru_misses":    atomic.LoadUint64(&c.lruMisses),
		"dynamo_hits":   atomic.LoadUint64(&c.dynamoHits),
		"dynamo_misses": atomic.LoadUint64(&c.dynamoMisses),
	}
}

// Clear removes all entries from the LRU cache
func (c *LRUCacheService) Clear() {
	c.lru.Purge()
}
