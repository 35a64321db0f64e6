package cache

import (
	"context"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"time"
)

type MockSoundingCache struct{}

func NewMockSoundingCache() *MockSoundingCache {
	return &MockSoundingCache{}
}

func (m *MockSoundingCache) GetSoundings(_ context.Context, siteID string, model string, cycle time.Time) (*models.SoundingRecord, error) {
	return &models.SoundingRecord{
		SiteID:     siteID,
		ModelCycle: models.ModelCycleKey(model, cycle),
		Model:      model,
		Cycle:      cycle.UTC().Format(models.CycleFormat),
	}, nil
}

func (m *MockSoundingCache) SaveSoundings(_ context.Context, _ models.SoundingRecord) error {
	return nil
}

func (m *MockSoundingCache) SaveSoundingsBatch(_ context.Context, _ []models.SoundingRecord) error {
	return nil
}
