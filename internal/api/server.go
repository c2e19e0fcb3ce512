// Package api provides the HTTP API server and handlers for the WhenWorks application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/whenworksapp/whenworks-server/internal/config"
	"github.com/whenworksapp/whenworks-server/internal/ratelimit"
	"github.com/whenworksapp/whenworks-server/internal/service"
	"github.com/whenworksapp/whenworks-server/internal/sse"
	"github.com/whenworksapp/whenworks-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        *store.Store
	rooms        *service.RoomService
	identities   *service.IdentityService
	sseHandler   *sse.Handler
	sseManager   *sse.Manager
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
	writeLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg *config.Config,
	store *store.Store,
	rooms *service.RoomService,
	identities *service.IdentityService,
	sseHandler *sse.Handler,
	sseManager *sse.Manager,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:        store,
		rooms:        rooms,
		identities:   identities,
		sseHandler:   sseHandler,
		sseManager:   sseManager,
		router:       router,
		logger:       logger,
		writeLimiter: ratelimit.New(cfg.Room.WriteRatePerSecond, cfg.Room.WriteBurst),
	}

	s.setupMiddleware(cfg)

	RegisterErrorHandler()
	s.api = humachi.New(router, huma.DefaultConfig("WhenWorks API", "1.0.0"))

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerRoomRoutes()
	s.registerExportRoutes()

	return s
}

// API exposes the underlying huma API, primarily for tests.
func (s *Server) API() huma.API {
	return s.api
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown() {
	s.writeLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// The scheduling widget is embedded in browser pages, so CORS is part of
	// the product surface rather than an afterthought.
	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// registerExportRoutes wires the non-JSON endpoints directly on chi.
// Huma doesn't model file downloads or SSE streams well, so these bypass it.
func (s *Server) registerExportRoutes() {
	s.router.Get("/api/v1/rooms/{id}/export.csv", s.handleExportCSV)
	s.router.Get("/api/v1/rooms/{id}/export.ics", s.handleExportICS)
	s.router.Get("/api/v1/rooms/{id}/stream", s.sseHandler.ServeHTTP)
}
