package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aloftwx/aloft/backend-go/internal/api"
	"github.com/aloftwx/aloft/backend-go/internal/cache"
	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/aloftwx/aloft/backend-go/internal/handler"
	"github.com/aloftwx/aloft/backend-go/internal/observability"
	"github.com/aloftwx/aloft/backend-go/internal/site"
	"github.com/aloftwx/aloft/backend-go/internal/sounding"
	"github.com/aloftwx/aloft/backend-go/pkg/http/client"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// newServer wires the site and sounding services into a local HTTP
// server with the same routes the lambdas serve.
func newServer(cfg *config.Config, metrics *observability.Metrics, addr string) (*api.Server, error) {
	// HTTP client for the GSL soundings endpoint
	gslClient := client.New(client.Options{
		BaseURL:    cfg.GSLBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	// The catalog URL is absolute, so the site finder gets its own client
	catalogClient := client.New(client.Options{
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	siteFinder, err := site.NewGSLSiteFinder(catalogClient, cfg.SiteCatalogURL, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing site finder: %w", err)
	}
	siteFinder.Metrics = metrics

	soundingService, err := sounding.NewService(context.Background(), gslClient, siteFinder)
	if err != nil {
		return nil, fmt.Errorf("initializing sounding service: %w", err)
	}
	soundingService.Metrics = metrics

	// The sounding cache tier depends on configuration, so wire metrics
	// after the service picked one
	switch c := soundingService.SoundingCache.(type) {
	case *cache.LRUCacheService:
		c.Metrics = metrics
	case *cache.MemorySoundingCache:
		c.Metrics = metrics
	}

	responseCache, err := cache.NewResponseCache(config.GetCacheConfig())
	if err != nil {
		return nil, fmt.Errorf("initializing response cache: %w", err)
	}

	srv := api.NewServer(api.ServerOptions{
		Addr:          addr,
		ResponseCache: responseCache,
		Metrics:       metrics,
	})
	srv.Handle("GET /api/sites", handler.NewSitesHandler(siteFinder).HandleRequest)
	srv.Handle("GET /api/soundings", handler.NewSoundingsHandler(soundingService).HandleRequest)

	return srv, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env file not found, using process environment")
	}

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	metrics := observability.NewMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv, err := newServer(cfg, metrics, ":"+port)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}
