package main

import (
	"context"
	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/aloftwx/aloft/backend-go/internal/handler"
	"github.com/aloftwx/aloft/backend-go/internal/site"
	"github.com/aloftwx/aloft/backend-go/pkg/http/client"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"sync"
)

var (
	lambdaStart  = lambda.Start // Allow mocking of lambda.Start in tests
	sitesHandler *handler.SitesHandler
	setupOnce    sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		// The catalog URL is absolute, so the client gets no base URL
		httpClient := client.New(client.Options{
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})

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

		// Initialize site finder with cache
		siteFinder, _ := site.NewGSLSiteFinder(httpClient, cfg.SiteCatalogURL, nil)

		// Initialize handler
		sitesHandler = handler.NewSitesHandler(siteFinder)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return sitesHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
