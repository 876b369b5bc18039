package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"consent-engine/internal/api"
	"consent-engine/internal/api/handlers"
	"consent-engine/internal/config"
	"consent-engine/internal/domain/services"
	"consent-engine/internal/infrastructure/cache"
	"consent-engine/internal/infrastructure/database"
	"consent-engine/internal/infrastructure/database/repository"
	"consent-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Consent Engine")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache, err := initInfrastructure(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize infrastructure")
	}
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize scan repository
	var scanRepo *repository.ScanRepository
	if db != nil {
		scanRepo = repository.NewScanRepository(db)
		log.Info().Msg("scan repository initialized with database")
	} else {
		log.Warn().Msg("running without database - scan history unavailable")
	}

	// Load permission catalog
	var catalog *services.PermissionCatalog
	if cfg.Catalog.Path != "" {
		catalog, err = services.LoadPermissionCatalog(cfg.Catalog.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("failed to load permission catalog")
		}
		log.Info().Str("path", cfg.Catalog.Path).Msg("permission catalog loaded")
	} else {
		catalog = services.NewPermissionCatalog()
		log.Info().Msg("using built-in permission catalog")
	}

	// Load policy classifier artifact. A configured model that fails to load
	// is a startup error, not a degraded mode.
	var policyModel *services.PolicyRiskModel
	if cfg.Model.Enabled {
		policyModel, err = services.LoadPolicyRiskModel(cfg.Model.Path, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Model.Path).Msg("failed to load policy classifier")
		}
		log.Info().Str("version", policyModel.Info().Version).Msg("policy classifier loaded")
	} else {
		log.Info().Msg("policy classifier disabled")
	}

	// Initialize services
	normalizer := services.NewPermissionNormalizer()

	var policyScorer services.PolicyScorer
	if policyModel != nil {
		policyScorer = policyModel
	}
	calculator := services.NewRiskCalculator(catalog, normalizer, policyScorer, log)
	urlScorer := services.NewURLScorer(log)
	optimizer := services.NewPermissionOptimizer(calculator, log)
	analyzer := services.NewPolicyAnalyzer(log)

	var store services.ScanStore
	if scanRepo != nil {
		store = scanRepo
	}
	scanService := services.NewScanService(calculator, urlScorer, store, redisCache, cfg.Cache.URLAssessmentTTL, cfg.Cache.ScanTTL, log)

	// Initialize handlers
	deps := handlers.Dependencies{
		Scans:     scanService,
		Optimizer: optimizer,
		Analyzer:  analyzer,
		Model:     policyModel,
		Catalog:   catalog,
		Cache:     redisCache,
		ScanRepo:  scanRepo,
		Logger:    log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure initializes database and cache connections
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache, error) {
	// Connect to PostgreSQL
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
		// Don't fail, continue without database for development
	}

	// Connect to Redis
	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		return db, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return db, redisCache, nil
}
