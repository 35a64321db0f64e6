package main

import (
	"context"
	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/aloftwx/aloft/backend-go/internal/handler"
	"github.com/aloftwx/aloft/backend-go/internal/site"
	"github.com/aloftwx/aloft/backend-go/internal/sounding"
	"github.com/aloftwx/aloft/backend-go/pkg/http/client"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"sync"
)

var (
	lambdaStart      = lambda.Start // Allow mocking of lambda.Start in tests
	soundingsHandler *handler.SoundingsHandler
	setupOnce        sync.Once
)

func init() {
	initializeService()
}

func initializeService() {
	setupOnce.Do(func() {
		// Initialize logger
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		levelStr := os.Getenv("LOG_LEVEL")
		if levelStr == "" {
			levelStr = "info"
		}
		level, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)

		// Setup console logger for development
		if env := os.Getenv("ENV"); env == "local" || env == "development" {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		}

		cfg := config.LoadFromEnv()

		// Initialize HTTP client for the GSL soundings endpoint
		httpClient := client.New(client.Options{
			BaseURL:    cfg.GSLBaseURL,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})

		// The catalog URL is absolute, so the site finder gets its own client
		catalogClient := client.New(client.Options{
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})

		// Initialize site finder. We can pass nil for the site cache as
		// it's maintained in the sites lambda.
		siteFinder, err := site.NewGSLSiteFinder(catalogClient, cfg.SiteCatalogURL, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize site finder")
		}

		// Initialize sounding service
		soundingService, err := sounding.NewService(context.Background(), httpClient, siteFinder)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize sounding service")
		}

		soundingsHandler = handler.NewSoundingsHandler(soundingService)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return soundingsHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
