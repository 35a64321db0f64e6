package models

import (
	"fmt"
	"time"

	"github.com/aloftwx/aloft/backend-go/pkg/gsd"
)

// CycleFormat is the layout for a model run hour, the granularity
// soundings are cached and served at.
const CycleFormat = "2006-01-02T15"

// ExtendedSoundingResponse represents the full sounding response for a
// site, model and cycle, including every parsed report.
type ExtendedSoundingResponse struct {
	ResponseType string               `json:"responseType"`
	SiteID       string               `json:"siteId"`
	SiteName     *string              `json:"siteName"`
	Model        string               `json:"model"`
	Cycle        string               `json:"cycle"`
	Latitude     float64              `json:"latitude"`
	Longitude    float64              `json:"longitude"`
	SiteDistance float64              `json:"siteDistance"`
	Source       string               `json:"source"`
	Reports      []gsd.SoundingReport `json:"reports"`
	Count        int                  `json:"count"`
}

// Validate checks if an ExtendedSoundingResponse's fields are valid
func (r *ExtendedSoundingResponse) Validate() error {
	if r.SiteID == "" {
		return fmt.Errorf("site ID is required")
	}

	if r.Model == "" {
		return fmt.Errorf("model is required")
	}

	if _, err := time.Parse(CycleFormat, r.Cycle); err != nil {
		return fmt.Errorf("invalid cycle format: %s", r.Cycle)
	}

	// Validate latitude range (-90 to 90)
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", r.Latitude)
	}

	// Validate longitude range (-180 to 180)
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", r.Longitude)
	}

	// Validate SiteDistance is non-negative
	if r.SiteDistance < 0 {
		return fmt.Errorf("invalid site distance: %f", r.SiteDistance)
	}

	if r.Count != len(r.Reports) {
		return fmt.Errorf("count %d does not match %d reports", r.Count, len(r.Reports))
	}

	// Validate all reports
	for i, report := range r.Reports {
		if report.StationID == "" {
			return fmt.Errorf("invalid report at index %d: missing station ID", i)
		}
	}

	return nil
}
