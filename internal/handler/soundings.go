package handler

import (
	"context"
	"errors"
	"github.com/aloftwx/aloft/backend-go/internal/api"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aloftwx/aloft/backend-go/internal/sounding"
	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
	"net/http"
	"strconv"
)

const (
	defaultModel = "Op40"
	defaultHours = 1
)

type SoundingsHandler struct {
	soundingProvider sounding.SoundingProvider
}

func NewSoundingsHandler(provider sounding.SoundingProvider) *SoundingsHandler {
	return &SoundingsHandler{
		soundingProvider: provider,
	}
}

func (h *SoundingsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	model := defaultModel
	if str, ok := params["model"]; ok {
		model = str
	}

	var startTimeStr *string
	if str, ok := params["startTime"]; ok {
		startTimeStr = &str
	}

	hours := defaultHours
	if hoursStr, ok := params["hours"]; ok {
		parsed, err := strconv.Atoi(hoursStr)
		if err != nil {
			return api.Error("Invalid parameters", http.StatusBadRequest)
		}
		hours = parsed
	}

	var response *models.ExtendedSoundingResponse
	var err error

	// Check if we're looking up by site ID or coordinates
	if siteID, ok := params["siteId"]; ok {
		response, err = h.soundingProvider.GetSoundingsForSite(ctx, siteID, model, startTimeStr, hours)
	} else {
		lat, lon, parseErr := api.ParseCoordinates(params)
		if parseErr != nil {
			var invalidCoordErr api.InvalidCoordinatesError
			if errors.As(parseErr, &invalidCoordErr) {
				return api.Error(parseErr.Error(), http.StatusBadRequest)
			}
			return api.Error("Invalid parameters", http.StatusBadRequest)
		}

		response, err = h.soundingProvider.GetSoundings(ctx, lat, lon, model, startTimeStr, hours)
	}

	if err != nil {
		return soundingErrorResponse(err)
	}

	return api.Success(response)
}

// soundingErrorResponse maps service errors onto HTTP statuses. Range
// violations are the caller's fault, upstream GSL failures are a bad
// gateway, anything else is internal.
func soundingErrorResponse(err error) (events.APIGatewayProxyResponse, error) {
	log.Error().Err(err).Msg("Error getting sounding data")

	var rangeErr *sounding.InvalidRangeError
	if errors.As(err, &rangeErr) {
		return api.Error(rangeErr.Error(), http.StatusBadRequest)
	}

	var gslErr *sounding.GSLAPIError
	if errors.As(err, &gslErr) {
		return api.Error("Error fetching soundings from GSL", http.StatusBadGateway)
	}

	return api.Error("Error getting sounding data", http.StatusInternalServerError)
}
