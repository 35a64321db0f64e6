// internal/sounding/interface.go
package sounding

import (
	"context"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"time"
)

type SoundingProvider interface {
	GetSoundings(ctx context.Context, lat, lon float64, model string, startTimeStr *string, hours int) (*models.ExtendedSoundingResponse, error)
	GetSoundingsForSite(ctx context.Context, siteID string, model string, startTimeStr *string, hours int) (*models.ExtendedSoundingResponse, error)
}

type SiteFinder interface {
	FindSite(ctx context.Context, siteID string) (*models.Site, error)
	FindNearestSites(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error)
}

type SoundingCacheProvider interface {
	GetSoundings(ctx context.Context, siteID string, model string, cycle time.Time) (*models.SoundingRecord, error)
	SaveSoundings(ctx context.Context, record models.SoundingRecord) error
	SaveSoundingsBatch(ctx context.Context, records []models.SoundingRecord) error
}
