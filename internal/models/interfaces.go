package models

import "context"

type SiteFinder interface {
	FindSite(ctx context.Context, siteID string) (*Site, error)
	FindNearestSites(ctx context.Context, lat, lon float64, limit int) ([]Site, error)
}
