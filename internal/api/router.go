package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"consent-engine/internal/api/handlers"
	apimiddleware "consent-engine/internal/api/middleware"
	"consent-engine/internal/config"
	"consent-engine/internal/infrastructure/cache"
	"consent-engine/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Health checks
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		// Permission scan endpoints
		api.Route("/scans", func(scans chi.Router) {
			scans.Post("/analyze", r.handlers.Scan.Analyze)
			scans.Get("/", r.handlers.Scan.List)
			scans.Get("/{id}", r.handlers.Scan.Get)
		})

		// URL risk assessment endpoints
		api.Route("/url", func(url chi.Router) {
			url.Post("/assess", r.handlers.URL.Assess)
			url.Post("/assess/batch", r.handlers.URL.AssessBatch)
		})

		// Permission optimization endpoints
		api.Route("/permissions", func(perms chi.Router) {
			perms.Post("/optimize", r.handlers.Optimize.Optimize)
			perms.Post("/minimal", r.handlers.Optimize.MinimalSet)
			perms.Get("/catalog", r.handlers.Optimize.GetCatalog)
		})

		// Privacy policy endpoints
		api.Route("/policy", func(policy chi.Router) {
			policy.Post("/analyze", r.handlers.Policy.Analyze)
			policy.Post("/classify", r.handlers.Policy.Classify)
			policy.Get("/model", r.handlers.Policy.ModelInfo)
		})
	})

	return router
}
