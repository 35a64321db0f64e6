package models

import (
	"testing"
	"time"

	"github.com/aloftwx/aloft/backend-go/pkg/gsd"
	"github.com/stretchr/testify/assert"
)

func createTestReport(stationID string) gsd.SoundingReport {
	dewpt := 62
	return gsd.SoundingReport{
		Type:      "Op40",
		Date:      time.Date(2019, time.June, 21, 12, 0, 0, 0, time.UTC),
		CAPE:      126,
		CIN:       -129,
		Latitude:  39.77,
		Longitude: -104.88,
		StationID: stationID,
		Sonde:     gsd.SondeTypeA,
		WindUnits: gsd.WindUnitsKnots,
		Data: []gsd.SoundingDatum{
			{Pressure: 83290, Height: 1611, Temp: 136, DewPt: &dewpt, WindDir: 190, WindSpd: 8},
			{Pressure: 75000, Height: 2462, Temp: 86, WindDir: 225, WindSpd: 15},
		},
	}
}

func createValidResponse() ExtendedSoundingResponse {
	report := createTestReport("DEN")
	return ExtendedSoundingResponse{
		ResponseType: "soundings",
		SiteID:       "DEN",
		SiteName:     stringPtr("Denver International"),
		Model:        "Op40",
		Cycle:        "2019-06-21T12",
		Latitude:     39.77,
		Longitude:    -104.88,
		SiteDistance: 3.2,
		Source:       "GSL API",
		Reports:      []gsd.SoundingReport{report},
		Count:        1,
	}
}

func TestExtendedSoundingResponseValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		modifyFunc  func(*ExtendedSoundingResponse)
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid response",
			modifyFunc: func(r *ExtendedSoundingResponse) {},
			wantErr:    false,
		},
		{
			name: "missing site ID",
			modifyFunc: func(r *ExtendedSoundingResponse) {
				r.SiteID = ""
			},
			wantErr:     true,
			errContains: "site ID is required",
		},
		{
			name: "missing model",
			modifyFunc: func(r *ExtendedSoundingResponse) {
				r.Model = ""
			},
			wantErr:     true,
			errContains: "model is required",
		},
		{
			name: "invalid cycle format",
			modifyFunc: func(r *ExtendedSoundingResponse) {
				r.Cycle = "2019-06-21 12:00"
			},
			wantErr:     true,
			errContains: "invalid cycle format",
		},
		{
			name: "invalid latitude",
			modifyFunc: func(r *ExtendedSoundingResponse) {
				r.Latitude = 95.0
			},
			wantErr:     true,
			errContains: "invalid latitude",
		},
		{
			name: "invalid longitude",
			modifyFunc: func(r *ExtendedSoundingResponse) {
				r.Longitude = -181.0
			},
			wantErr:     true,
			errContains: "invalid longitude",
		},
		{
			name: "negative site distance",
			modifyFunc: func(r *ExtendedSoundingResponse) {
				r.SiteDistance = -0.5
			},
			wantErr:     true,
			errContains: "invalid site distance",
		},
		{
			name: "count does not match reports",
			modifyFunc: func(r *ExtendedSoundingResponse) {
				r.Count = 5
			},
			wantErr:     true,
			errContains: "does not match",
		},
		{
			name: "report missing station ID",
			modifyFunc: func(r *ExtendedSoundingResponse) {
				r.Reports[0].StationID = ""
			},
			wantErr:     true,
			errContains: "invalid report at index 0",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			response := createValidResponse()
			tt.modifyFunc(&response)

			err := response.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
