package sounding

import (
	"context"
	"fmt"
	"github.com/aloftwx/aloft/backend-go/internal/cache"
	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aloftwx/aloft/backend-go/internal/observability"
	"github.com/aloftwx/aloft/backend-go/pkg/gsd"
	"github.com/aloftwx/aloft/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
	"net/http"
	"time"
)

// startTimeLayout is the request layout for an explicit start time,
// always interpreted as UTC.
const startTimeLayout = "2006-01-02T15:04:05"

// supportedModels are the GSL data sources soundings can be requested
// from.
var supportedModels = map[string]bool{
	"Op40":  true,
	"Bak40": true,
	"NAM":   true,
	"GFS":   true,
	"RAOB":  true,
}

type Service struct {
	HttpClient    *client.Client
	SiteFinder    SiteFinder
	SoundingCache SoundingCacheProvider

	// Metrics may be nil; the observe helpers tolerate that.
	Metrics *observability.Metrics
}

func NewService(ctx context.Context, httpClient *client.Client, siteFinder SiteFinder) (*Service, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if siteFinder == nil {
		return nil, fmt.Errorf("site finder is required")
	}

	cacheConfig := config.GetCacheConfig()

	var soundingCache SoundingCacheProvider
	if cacheConfig.EnableDynamoCache {
		dynamoBacked, err := cache.NewCacheService(ctx, cacheConfig)
		if err != nil {
			return nil, fmt.Errorf("creating sounding cache: %w", err)
		}
		soundingCache = dynamoBacked
	} else {
		// Local runs without DynamoDB keep cycles in process memory
		soundingCache = cache.NewMemorySoundingCache(cacheConfig.GetDynamoTTL())
	}

	return &Service{
		HttpClient:    httpClient,
		SiteFinder:    siteFinder,
		SoundingCache: soundingCache,
	}, nil
}

func (s *Service) GetSoundings(ctx context.Context, lat, lon float64, model string, startTimeStr *string, hours int) (*models.ExtendedSoundingResponse, error) {
	// Validate coordinates
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid longitude: %f", lon)
	}

	sites, err := s.SiteFinder.FindNearestSites(ctx, lat, lon, 1)
	if err != nil {
		return nil, fmt.Errorf("finding nearest site: %w", err)
	}

	if len(sites) == 0 {
		return nil, fmt.Errorf("no sites found near coordinates")
	}

	return s.GetSoundingsForSite(ctx, sites[0].ID, model, startTimeStr, hours)
}

func (s *Service) GetSoundingsForSite(ctx context.Context, siteID string, model string, startTimeStr *string, hours int) (*models.ExtendedSoundingResponse, error) {
	site, err := s.SiteFinder.FindSite(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("finding site: %w", err)
	}

	if !supportedModels[model] {
		return nil, NewInvalidRangeError(fmt.Sprintf("unsupported model: %s", model))
	}

	if hours < 1 || hours > 24 {
		return nil, NewInvalidRangeError(fmt.Sprintf("hours must be between 1 and 24, got %d", hours))
	}

	// Parse start time if provided, otherwise use the current time
	var startTime time.Time
	if startTimeStr != nil {
		var err error
		startTime, err = time.ParseInLocation(startTimeLayout, *startTimeStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parsing start time: %w", err)
		}
	} else {
		startTime = time.Now().UTC()
	}

	// Model runs are hourly; the cycle is the start truncated to its hour
	cycle := startTime.UTC().Truncate(time.Hour)

	record, err := s.getSoundingsForCycle(ctx, site, model, cycle, hours)
	if err != nil {
		return nil, err
	}

	return &models.ExtendedSoundingResponse{
		ResponseType: "sounding",
		SiteID:       site.ID,
		SiteName:     &site.Name,
		Model:        model,
		Cycle:        cycle.Format(models.CycleFormat),
		Latitude:     site.Latitude,
		Longitude:    site.Longitude,
		SiteDistance: site.Distance,
		Source:       string(site.Source),
		Reports:      record.Reports,
		Count:        len(record.Reports),
	}, nil
}

func (s *Service) getSoundingsForCycle(ctx context.Context, site *models.Site, model string, cycle time.Time, hours int) (*models.SoundingRecord, error) {
	// Check cache first
	cached, err := s.SoundingCache.GetSoundings(ctx, site.ID, model, cycle)
	if err != nil {
		log.Error().Err(err).Str("site_id", site.ID).Msg("Error reading sounding cache")
	}
	if cached != nil {
		log.Debug().Str("site_id", site.ID).Str("model", model).Msg("Cache HIT for soundings")
		return cached, nil
	}

	log.Debug().Str("site_id", site.ID).Str("model", model).Msg("Cache MISS for soundings, fetching from GSL")

	reports, err := s.fetchGSLSoundings(ctx, site, model, cycle, hours)
	if err != nil {
		return nil, err
	}

	record := &models.SoundingRecord{
		SiteID:      site.ID,
		ModelCycle:  models.ModelCycleKey(model, cycle),
		Model:       model,
		Cycle:       cycle.UTC().Format(models.CycleFormat),
		Reports:     reports,
		LastUpdated: time.Now().Unix(),
	}

	// Save to cache asynchronously
	go func() {
		if err := s.SoundingCache.SaveSoundings(context.Background(), *record); err != nil {
			log.Error().Err(err).Str("site_id", site.ID).Msg("Failed to save soundings to cache")
		}
	}()

	return record, nil
}

func (s *Service) fetchGSLSoundings(ctx context.Context, site *models.Site, model string, cycle time.Time, hours int) ([]gsd.SoundingReport, error) {
	start := time.Now()
	resp, err := s.HttpClient.Get(ctx, fmt.Sprintf("/get_soundings.cgi"+
		"?data_source=%s&start_year=%d&start_month_name=%s&start_mday=%d"+
		"&start_hour=%d&start_min=0&n_hrs=%d.0&fcst_len=shortest"+
		"&airport=%s&text=Ascii%%20text%%20%%28GSD%%20format%%29&hydrometeors=false",
		model, cycle.Year(), cycle.Format("Jan"), cycle.Day(), cycle.Hour(), hours, site.ID))
	if err != nil {
		s.observeGSLRequest(model, "error", start)
		return nil, NewGSLAPIError("fetching soundings", err)
	}
	if resp == nil {
		s.observeGSLRequest(model, "error", start)
		return nil, NewGSLAPIError("no response from GSL API", nil)
	}
	if resp.StatusCode != http.StatusOK {
		s.observeGSLRequest(model, "error", start)
		return nil, NewGSLAPIError(fmt.Sprintf("unexpected status %d from GSL API", resp.StatusCode), nil)
	}

	log.Debug().Msgf("Fetched soundings from GSL: site=%s model=%s cycle=%s hours=%d",
		site.ID, model, cycle.UTC().Format(models.CycleFormat), hours)

	reports, err := gsd.Parse(string(resp.Body))
	if err != nil {
		s.Metrics.IncParseFailures()
		s.observeGSLRequest(model, "error", start)
		return nil, NewGSLAPIError("parsing GSD response", err)
	}

	s.Metrics.AddReportsParsed(len(reports))
	s.observeGSLRequest(model, "success", start)

	return reports, nil
}

func (s *Service) observeGSLRequest(model, outcome string, start time.Time) {
	s.Metrics.ObserveGSLRequest(model, outcome, time.Since(start).Seconds())
}
