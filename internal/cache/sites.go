package cache

import (
	"sync"
	"time"

	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/aloftwx/aloft/backend-go/internal/models"
)

type SiteCache struct {
	sites       []models.Site
	lastUpdated time.Time
	ttl         time.Duration
	mu          sync.RWMutex
}

func NewSiteCache(cfg *config.CacheConfig) *SiteCache {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	return &SiteCache{
		sites:       make([]models.Site, 0),
		lastUpdated: time.Time{}, // Zero time to ensure first fetch
		ttl:         cfg.GetSiteListTTL(),
	}
}

func (c *SiteCache) GetSites() []models.Site {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isExpired() {
		return nil
	}
	return c.sites
}

func (c *SiteCache) SetSites(sites []models.Site) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sites = sites
	c.lastUpdated = time.Now()
}

func (c *SiteCache) isExpired() bool {
	return time.Since(c.lastUpdated) > c.ttl
}
