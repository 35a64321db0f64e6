package sounding

import (
	"context"
	"errors"
	"github.com/aloftwx/aloft/backend-go/internal/cache"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aloftwx/aloft/backend-go/pkg/http/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

// Define the error that would normally come from the site package
var ErrSiteNotFound = errors.New("site not found")

type mockSiteFinder struct{}

func (m *mockSiteFinder) FindNearestSites(_ context.Context, lat, lon float64, _ int) ([]models.Site, error) {
	return []models.Site{
		{
			ID:        "DEN",
			Name:      "Denver/Stapleton",
			Latitude:  lat,
			Longitude: lon,
			Source:    models.SourceGSL,
			Models:    []string{"Op40", "Bak40"},
		},
	}, nil
}

func (m *mockSiteFinder) FindSite(_ context.Context, siteID string) (*models.Site, error) {
	if siteID == "DEN" {
		return &models.Site{
			ID:        "DEN",
			Name:      "Denver/Stapleton",
			Latitude:  39.77,
			Longitude: -104.88,
			Source:    models.SourceGSL,
			Models:    []string{"Op40", "Bak40"},
		}, nil
	}
	return nil, ErrSiteNotFound
}

func TestGetSoundings(t *testing.T) {
	mockService := &Service{
		HttpClient:    &client.Client{},             // Mock HTTP client
		SiteFinder:    &mockSiteFinder{},            // Mock site finder
		SoundingCache: cache.NewMockSoundingCache(), // Mock cache service
	}

	tests := []struct {
		name       string
		lat        float64
		lon        float64
		wantErr    bool
		errMessage string
	}{
		{
			name:    "valid coordinates",
			lat:     39.77,
			lon:     -104.88,
			wantErr: false,
		},
		{
			name:       "invalid coordinates",
			lat:        181.0, // Invalid latitude
			lon:        -104.88,
			wantErr:    true,
			errMessage: "invalid latitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			response, err := mockService.GetSoundings(ctx, tt.lat, tt.lon, "Op40", nil, 1)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errMessage != "" {
					assert.Contains(t, err.Error(), tt.errMessage)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, response)
			assert.Equal(t, "sounding", response.ResponseType)
			assert.NotEmpty(t, response.SiteID)
		})
	}
}

func TestGetSoundingsForSite(t *testing.T) {
	mockService := &Service{
		HttpClient:    &client.Client{},             // Mock HTTP client
		SiteFinder:    &mockSiteFinder{},            // Mock site finder
		SoundingCache: cache.NewMockSoundingCache(), // Mock cache service
	}

	tests := []struct {
		name       string
		siteID     string
		wantErr    bool
		errMessage string
	}{
		{
			name:    "valid site",
			siteID:  "DEN",
			wantErr: false,
		},
		{
			name:       "invalid site",
			siteID:     "invalid",
			wantErr:    true,
			errMessage: "site not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			response, err := mockService.GetSoundingsForSite(ctx, tt.siteID, "Op40", nil, 1)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errMessage != "" {
					assert.Contains(t, err.Error(), tt.errMessage)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, response)
			assert.Equal(t, "sounding", response.ResponseType)
			assert.Equal(t, tt.siteID, response.SiteID)
			assert.Equal(t, "Op40", response.Model)
			assert.NotEmpty(t, response.Cycle)
		})
	}
}

func TestRequestValidation(t *testing.T) {
	mockService := &Service{
		HttpClient:    &client.Client{},             // Mock HTTP client
		SiteFinder:    &mockSiteFinder{},            // Mock site finder
		SoundingCache: cache.NewMockSoundingCache(), // Mock cache service
	}
	ctx := context.Background()

	tests := []struct {
		name        string
		model       string
		startTime   *string
		hours       int
		wantErr     bool
		wantRangeEr bool
		errContains string
	}{
		{
			name:      "valid single hour",
			model:     "Op40",
			startTime: stringPtr("2019-06-21T12:00:00"),
			hours:     1,
			wantErr:   false,
		},
		{
			name:      "valid full day",
			model:     "GFS",
			startTime: stringPtr("2019-06-21T00:00:00"),
			hours:     24,
			wantErr:   false,
		},
		{
			name:        "unsupported model",
			model:       "ECMWF",
			startTime:   stringPtr("2019-06-21T12:00:00"),
			hours:       1,
			wantErr:     true,
			wantRangeEr: true,
			errContains: "unsupported model",
		},
		{
			name:        "zero hours",
			model:       "Op40",
			startTime:   stringPtr("2019-06-21T12:00:00"),
			hours:       0,
			wantErr:     true,
			wantRangeEr: true,
			errContains: "hours must be between 1 and 24",
		},
		{
			name:        "too many hours",
			model:       "Op40",
			startTime:   stringPtr("2019-06-21T12:00:00"),
			hours:       25,
			wantErr:     true,
			wantRangeEr: true,
			errContains: "hours must be between 1 and 24",
		},
		{
			name:        "invalid start time format",
			model:       "Op40",
			startTime:   stringPtr("2019-06-21"), // Missing time component
			hours:       1,
			wantErr:     true,
			errContains: "parsing start time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mockService.GetSoundingsForSite(ctx, "DEN", tt.model, tt.startTime, tt.hours)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				if tt.wantRangeEr {
					var rangeErr *InvalidRangeError
					assert.True(t, errors.As(err, &rangeErr))
				}
				return
			}
			require.NoError(t, err)
		})
	}
}

// Helper functions
func stringPtr(s string) *string {
	return &s
}
