// Package api provides the HTTP API server and handlers for the Tachi
// score tracker.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/ratelimit"
	"github.com/Adamaq01/Tachi/internal/search"
	"github.com/Adamaq01/Tachi/internal/service"
	"github.com/Adamaq01/Tachi/internal/store"
)

// Version reported by the health endpoint and OpenAPI document.
const Version = "1.0.0"

// Acquirer builds pipeline acquisitions from raw request payloads.
type Acquirer interface {
	Acquire(userID string, importType domain.ImportType, payload []byte) importing.AcquireFunc
}

// Runner executes one import end to end.
type Runner interface {
	Run(ctx context.Context, userID string, userIntent bool, importType domain.ImportType, acquire importing.AcquireFunc) (*domain.ImportDocument, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        *store.Store
	charts       *search.ChartIndex
	auth         *service.AuthService
	importer     Acquirer
	orchestrator Runner

	importLimiter *ratelimit.KeyedRateLimiter
	router        *chi.Mux
	api           huma.API
	logger        *slog.Logger
}

// Config holds the knobs NewServer needs beyond its collaborators.
type Config struct {
	// ImportRPS and ImportBurst limit import submissions per user.
	ImportRPS   float64
	ImportBurst int
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg Config, st *store.Store, charts *search.ChartIndex, authService *service.AuthService, importer Acquirer, orchestrator Runner, logger *slog.Logger) *Server {
	if cfg.ImportRPS <= 0 {
		cfg.ImportRPS = 1
	}
	if cfg.ImportBurst <= 0 {
		cfg.ImportBurst = 5
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(authMiddleware(authService))
	router.Use(RateLimitMiddleware(NewRateLimiter(300, time.Minute, 100), logger))

	humaConfig := huma.DefaultConfig("Tachi API", Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:         st,
		charts:        charts,
		auth:          authService,
		importer:      importer,
		orchestrator:  orchestrator,
		importLimiter: ratelimit.New(cfg.ImportRPS, cfg.ImportBurst),
		router:        router,
		api:           humaAPI,
		logger:        logger,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerImportRoutes()
	s.registerUserRoutes()
	s.registerChartRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
