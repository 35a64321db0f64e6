package models

import "fmt"

type Source string

const (
	SourceGSL  Source = "GSL"
	SourceRAOB Source = "RAOB"
)

// Site is an upper-air location soundings can be requested for: an
// airport or model grid point from the GSL site catalog.
type Site struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	State     *string  `json:"state,omitempty"`
	Distance  float64  `json:"distance"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *int     `json:"elevation,omitempty"`
	Source    Source   `json:"source"`
	Models    []string `json:"models"`
}

// Validate checks if a Site's fields are valid
func (s *Site) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("site ID is required")
	}

	// Validate latitude range (-90 to 90)
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", s.Latitude)
	}

	// Validate longitude range (-180 to 180)
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", s.Longitude)
	}

	// Validate Distance is non-negative
	if s.Distance < 0 {
		return fmt.Errorf("invalid distance: %f", s.Distance)
	}

	switch s.Source {
	case SourceGSL, SourceRAOB:
		// Valid source
	default:
		return fmt.Errorf("invalid source: %s", s.Source)
	}

	return nil
}
