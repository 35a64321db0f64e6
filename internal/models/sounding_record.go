package models

import (
	"fmt"
	"time"

	"github.com/aloftwx/aloft/backend-go/pkg/gsd"
)

// SoundingRecord represents a cached set of parsed reports for a site,
// model and cycle
type SoundingRecord struct {
	SiteID      string               `dynamodbav:"siteId"`
	ModelCycle  string               `dynamodbav:"modelCycle"` // Format: <model>:<cycle>, the table's range key
	Model       string               `dynamodbav:"model"`
	Cycle       string               `dynamodbav:"cycle"` // Format: YYYY-MM-DDTHH
	Reports     []gsd.SoundingReport `dynamodbav:"reports"`
	LastUpdated int64                `dynamodbav:"lastUpdated"`
	TTL         int64                `dynamodbav:"ttl"`
}

// ModelCycleKey builds the range key a record is stored under.
func ModelCycleKey(model string, cycle time.Time) string {
	return fmt.Sprintf("%s:%s", model, cycle.UTC().Format(CycleFormat))
}

// Validate checks if a SoundingRecord's fields are valid
func (r *SoundingRecord) Validate() error {
	if r.SiteID == "" {
		return fmt.Errorf("site ID is required")
	}

	if r.Model == "" {
		return fmt.Errorf("model is required")
	}

	if _, err := time.Parse(CycleFormat, r.Cycle); err != nil {
		return fmt.Errorf("invalid cycle format: %s", r.Cycle)
	}

	if r.ModelCycle != fmt.Sprintf("%s:%s", r.Model, r.Cycle) {
		return fmt.Errorf("model cycle key %q does not match model %q and cycle %q", r.ModelCycle, r.Model, r.Cycle)
	}

	// Validate all reports
	for i, report := range r.Reports {
		if report.StationID == "" {
			return fmt.Errorf("invalid report at index %d: missing station ID", i)
		}
	}

	return nil
}
