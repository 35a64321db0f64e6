package handler

import (
	"context"
	"errors"
	"github.com/aloftwx/aloft/backend-go/internal/api"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aws/aws-lambda-go/events"
	"net/http"
	"strconv"
)

type SitesHandler struct {
	siteFinder models.SiteFinder
}

func NewSitesHandler(finder models.SiteFinder) *SitesHandler {
	return &SitesHandler{
		siteFinder: finder,
	}
}

func (h *SitesHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	// Check if we're looking up by site ID or coordinates
	if siteID, ok := params["siteId"]; ok {
		siteLocal, err := h.siteFinder.FindSite(ctx, siteID)
		if err != nil {
			return api.Error("Error finding site", http.StatusInternalServerError)
		}
		if siteLocal == nil {
			return api.Error("Site not found", http.StatusNotFound)
		}
		return api.Success(api.NewSitesResponse([]models.Site{*siteLocal}))
	}

	// Parse coordinates
	lat, lon, err := api.ParseCoordinates(params)
	if err != nil {
		var invalidCoordErr api.InvalidCoordinatesError
		if errors.As(err, &invalidCoordErr) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}

	// Default limit to 5 if not specified
	limit := 5
	if limitStr, ok := params["limit"]; ok {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
		}
	}

	sites, err := h.siteFinder.FindNearestSites(ctx, lat, lon, limit)
	if err != nil {
		return api.Error("Error finding sites", http.StatusInternalServerError)
	}

	return api.Success(api.NewSitesResponse(sites))
}
