package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aloftwx/aloft/backend-go/internal/observability"
)

// MemorySoundingCache is a process-local sounding store for running without AWS
type MemorySoundingCache struct {
	records     map[string]map[string]models.SoundingRecord // map[siteID]map[modelCycle]record
	mu          sync.Mutex
	validityTTL time.Duration
	clock       clock

	// Metrics may be nil; the observe helpers tolerate that.
	Metrics *observability.Metrics
}

func NewMemorySoundingCache(validityTTL time.Duration) *MemorySoundingCache {
	return &MemorySoundingCache{
		records:     make(map[string]map[string]models.SoundingRecord),
		validityTTL: validityTTL,
		clock:       &systemClock{},
	}
}

func (c *MemorySoundingCache) GetSoundings(_ context.Context, siteID string, model string, cycle time.Time) (*models.SoundingRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	modelCycle := models.ModelCycleKey(model, cycle)

	if siteRecords, exists := c.records[siteID]; exists {
		if record, exists := siteRecords[modelCycle]; exists {
			if c.isValid(record) {
				c.Metrics.ObserveCacheLookup("memory", "hit")
				return &record, nil
			}
			// Record exists but is expired, remove it
			delete(siteRecords, modelCycle)
			if len(siteRecords) == 0 {
				delete(c.records, siteID)
			}
		}
	}

	c.Metrics.ObserveCacheLookup("memory", "miss")
	return nil, nil
}

func (c *MemorySoundingCache) SaveSoundings(_ context.Context, record models.SoundingRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.save(record)
}

func (c *MemorySoundingCache) SaveSoundingsBatch(_ context.Context, records []models.SoundingRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, record := range records {
		if err := c.save(record); err != nil {
			return fmt.Errorf("saving record for site %s cycle %s: %w", record.SiteID, record.ModelCycle, err)
		}
	}
	return nil
}

// save requires c.mu to be held
func (c *MemorySoundingCache) save(record models.SoundingRecord) error {
	if c.records[record.SiteID] == nil {
		c.records[record.SiteID] = make(map[string]models.SoundingRecord)
	}

	now := c.clock.Now()
	record.LastUpdated = now.Unix()
	record.TTL = now.Add(c.validityTTL).Unix()

	c.records[record.SiteID][record.ModelCycle] = record
	return nil
}

func (c *MemorySoundingCache) isValid(record models.SoundingRecord) bool {
	return c.clock.Now().Unix() < record.TTL
}
