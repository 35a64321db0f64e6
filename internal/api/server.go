package api

import (
	"context"
	"encoding/json"
	"github.com/aloftwx/aloft/backend-go/internal/cache"
	"github.com/aloftwx/aloft/backend-go/internal/observability"
	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"net/http"
	"time"
)

// LambdaHandler is the request signature shared by the Lambda entrypoints.
// The local server adapts plain HTTP requests into it so the same handlers
// serve both deployments.
type LambdaHandler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Server exposes the Lambda handlers over net/http for local development,
// along with health and metrics endpoints.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	responses  *cache.ResponseCache
	// Metrics may be nil; the observe helpers tolerate that.
	Metrics *observability.Metrics
}

type ServerOptions struct {
	Addr          string
	ResponseCache *cache.ResponseCache
	Metrics       *observability.Metrics
}

func NewServer(opts ServerOptions) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      requestID(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:       mux,
		responses: opts.ResponseCache,
		Metrics:   opts.Metrics,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handle registers a Lambda handler under the given mux pattern. GET
// responses with status 200 are memoized in the response cache when one
// is configured.
func (s *Server) Handle(pattern string, handler LambdaHandler) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && s.responses != nil {
			if body, ok := s.responses.Get(r.Context(), r.URL.RequestURI()); ok {
				s.Metrics.ObserveCacheLookup("response", "hit")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("X-Cache", "HIT")
				_, _ = w.Write([]byte(body.(string)))
				return
			}
			s.Metrics.ObserveCacheLookup("response", "miss")
		}

		params := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		resp, err := handler(r.Context(), events.APIGatewayProxyRequest{
			Path:                  r.URL.Path,
			HTTPMethod:            r.Method,
			QueryStringParameters: params,
		})
		if err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Handler failed")
			writeJSON(w, http.StatusInternalServerError, NewErrorResponse("Internal Server Error"))
			return
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))

		if r.Method == http.MethodGet && resp.StatusCode == http.StatusOK && s.responses != nil {
			s.responses.Add(r.Context(), r.URL.RequestURI(), resp.Body)
		}
	})
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server starting")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("request_id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
