package site

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/rs/zerolog/log"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/aloftwx/aloft/backend-go/internal/cache"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aloftwx/aloft/backend-go/internal/observability"
	"github.com/aloftwx/aloft/backend-go/pkg/http/client"
)

type FinderFactory interface {
	NewFinder(httpClient *client.Client, catalogURL string, memCache *cache.SiteCache) (*GSLSiteFinder, error)
}

type DefaultFinderFactory struct{}

func (f *DefaultFinderFactory) NewFinder(httpClient *client.Client, catalogURL string, memCache *cache.SiteCache) (*GSLSiteFinder, error) {
	return NewGSLSiteFinder(httpClient, catalogURL, memCache)
}

type GSLSiteFinder struct {
	httpClient *client.Client
	catalogURL string
	memCache   *cache.SiteCache
	s3Cache    cache.SiteListCacheProvider
	cacheMutex sync.RWMutex

	// Metrics may be nil; the observe helpers tolerate that.
	Metrics *observability.Metrics
}

var _ models.SiteFinder = (*GSLSiteFinder)(nil)

func NewGSLSiteFinder(httpClient *client.Client, catalogURL string, memCache *cache.SiteCache) (*GSLSiteFinder, error) {
	if memCache == nil {
		memCache = cache.NewSiteCache(nil) // Use default config
	}

	var s3Cache cache.SiteListCacheProvider
	if bucket := os.Getenv("SITE_LIST_BUCKET"); bucket != "" {
		s3SiteCache, err := cache.NewS3SiteCache(context.Background(), bucket, nil)
		if err != nil {
			log.Warn().Err(err).Msg("Site list S3 cache unavailable, continuing without it")
		} else {
			s3Cache = s3SiteCache
		}
	}

	return &GSLSiteFinder{
		httpClient: httpClient,
		catalogURL: catalogURL,
		memCache:   memCache,
		s3Cache:    s3Cache,
	}, nil
}

func (f *GSLSiteFinder) FindNearestSites(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error) {
	// Validate coordinates
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid longitude: %f", lon)
	}

	// Get all sites
	sites, err := f.getSiteList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting site list: %w", err)
	}

	// Calculate distances and sort
	type siteDistance struct {
		site     models.Site
		distance float64
	}

	siteDistances := make([]siteDistance, len(sites))
	for i, site := range sites {
		distance := calculateDistance(lat, lon, site.Latitude, site.Longitude)
		siteDistances[i] = siteDistance{
			site:     site,
			distance: distance,
		}
	}

	// Sort by distance
	sort.Slice(siteDistances, func(i, j int) bool {
		return siteDistances[i].distance < siteDistances[j].distance
	})

	// Limit results and convert back to Site slice
	if limit <= 0 {
		limit = 5 // Default limit if not specified
	}
	if limit > len(siteDistances) {
		limit = len(siteDistances)
	}

	result := make([]models.Site, limit)
	for i := 0; i < limit; i++ {
		site := siteDistances[i].site
		site.Distance = siteDistances[i].distance // Add distance to result
		result[i] = site
	}

	return result, nil
}

func (f *GSLSiteFinder) FindSite(ctx context.Context, siteID string) (*models.Site, error) {
	sites, err := f.getSiteList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting site list: %w", err)
	}

	for _, site := range sites {
		if site.ID == siteID {
			return &site, nil
		}
	}

	return nil, fmt.Errorf("site not found: %s", siteID)
}

func (f *GSLSiteFinder) getSiteList(ctx context.Context) ([]models.Site, error) {
	// Check memory cache first
	f.cacheMutex.RLock()
	sites := f.memCache.GetSites()
	f.cacheMutex.RUnlock()

	if sites != nil {
		log.Debug().Msg("Memory cache HIT for site list")
		f.Metrics.ObserveCacheLookup("sites", "hit")
		return sites, nil
	}

	// Check S3 cache if available
	if f.s3Cache != nil {
		sites, err := f.s3Cache.GetSites(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error getting sites from S3 cache")
		} else if sites != nil {
			log.Debug().Msg("S3 cache HIT for site list")
			f.Metrics.ObserveCacheLookup("sites", "hit")
			// Update memory cache
			f.cacheMutex.Lock()
			f.memCache.SetSites(sites)
			f.cacheMutex.Unlock()
			return sites, nil
		}
	}

	log.Debug().Msg("Cache MISS for site list, fetching from GSL catalog")
	f.Metrics.ObserveCacheLookup("sites", "miss")

	if f.catalogURL == "" {
		return nil, fmt.Errorf("site catalog URL not configured")
	}

	// Fetch from the GSL site catalog
	resp, err := f.httpClient.Get(ctx, f.catalogURL)
	if err != nil {
		return nil, fmt.Errorf("fetching site catalog: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from GSL catalog")
	}

	var catalogResp struct {
		Sites []struct {
			ID        string   `json:"id"`
			Name      string   `json:"name"`
			State     string   `json:"state"`
			Lat       float64  `json:"lat"`
			Lon       float64  `json:"lon"`
			Elevation *int     `json:"elevation"`
			Source    string   `json:"source"`
			Models    []string `json:"models"`
		} `json:"sites"`
	}

	if err := json.Unmarshal(resp.Body, &catalogResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// Convert to Site objects
	sites = make([]models.Site, len(catalogResp.Sites))
	for i, s := range catalogResp.Sites {
		var state *string
		if s.State != "" {
			stateValue := s.State
			state = &stateValue
		}

		source := models.SourceGSL
		if s.Source == string(models.SourceRAOB) {
			source = models.SourceRAOB
		}

		// Gridded models serve any site unless the catalog narrows them
		siteModels := s.Models
		if len(siteModels) == 0 {
			siteModels = []string{"Op40", "Bak40", "NAM", "GFS"}
		}

		sites[i] = models.Site{
			ID:        s.ID,
			Name:      s.Name,
			State:     state,
			Latitude:  s.Lat,
			Longitude: s.Lon,
			Elevation: s.Elevation,
			Source:    source,
			Models:    siteModels,
		}
	}

	f.Metrics.SetSiteCatalogSize(len(sites))

	// Save to both caches asynchronously
	if f.s3Cache != nil {
		go func() {
			if err := f.s3Cache.SaveSites(context.Background(), sites); err != nil {
				log.Error().Err(err).Msg("Failed to save sites to S3 cache")
			}
		}()
	}

	f.cacheMutex.Lock()
	f.memCache.SetSites(sites)
	f.cacheMutex.Unlock()

	return sites, nil
}

func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // km

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
