package handlers

import (
	"consent-engine/internal/domain/services"
	"consent-engine/internal/infrastructure/cache"
	"consent-engine/internal/infrastructure/database/repository"
	"consent-engine/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Scan     *ScanHandler
	URL      *URLHandler
	Optimize *OptimizeHandler
	Policy   *PolicyHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Scans     *services.ScanService
	Optimizer *services.PermissionOptimizer
	Analyzer  *services.PolicyAnalyzer
	Model     *services.PolicyRiskModel
	Catalog   *services.PermissionCatalog
	Cache     *cache.RedisCache
	ScanRepo  *repository.ScanRepository
	Logger    *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.ScanRepo, deps.Logger),
		Scan:     NewScanHandler(deps.Scans, deps.Logger),
		URL:      NewURLHandler(deps.Scans, deps.Logger),
		Optimize: NewOptimizeHandler(deps.Optimizer, deps.Analyzer, deps.Catalog, deps.Logger),
		Policy:   NewPolicyHandler(deps.Analyzer, deps.Model, deps.Logger),
	}
}
