// Package api provides the HTTP API server and handlers for the LitSwap application.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/litswap/litswap-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	authRateLimiter := NewRateLimiter(10, time.Minute, 5)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Credential endpoints get a per-IP rate limit to slow down guessing.
	router.Use(middleware.Maybe(
		RateLimitMiddleware(authRateLimiter, logger),
		func(r *http.Request) bool {
			return strings.HasPrefix(r.URL.Path, "/api/v1/auth/")
		},
	))

	// Auth runs on the chi router so both huma operations and plain chi
	// routes see the authenticated user.
	router.Use(authMiddleware(services.Auth))

	config := huma.DefaultConfig("LitSwap API", "1.0.0")
	config.Info.Description = "Peer-to-peer book exchange API"
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	config.Transformers = append(config.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, config)

	RegisterErrorHandler()

	s := &Server{
		store:           store,
		services:        services,
		router:          router,
		api:             humaAPI,
		logger:          logger,
		authRateLimiter: authRateLimiter,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerProfileRoutes()
	s.registerExploreRoutes()
	s.registerBookRoutes()
	s.registerImageRoutes()
	s.registerSearchRoutes()
	s.registerFavoriteRoutes()
	s.registerNotificationRoutes()
	s.registerBarterRoutes()
	s.registerChatRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server resources, including the rate limiter's cleanup
// goroutine.
func (s *Server) Close() {
	if s.authRateLimiter != nil {
		s.authRateLimiter.Stop()
	}
}
