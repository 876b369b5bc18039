package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"consent-engine/internal/domain/models"
	"consent-engine/internal/infrastructure/database/repository"
	"consent-engine/pkg/logger"
)

// ScanStore persists scan history
type ScanStore interface {
	Create(ctx context.Context, s *models.ScanRecord) (*models.ScanRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error)
	List(ctx context.Context, filter repository.ScanFilter) ([]*models.ScanRecord, error)
}

// AssessmentCache caches URL assessments and stored scans between requests
type AssessmentCache interface {
	CacheURLAssessment(ctx context.Context, urlHash string, data any, ttl time.Duration) error
	GetCachedURLAssessment(ctx context.Context, urlHash string, dest any) error
	CacheScan(ctx context.Context, scanID string, data any, ttl time.Duration) error
	GetCachedScan(ctx context.Context, scanID string, dest any) error
}

// ScanService runs risk analyses and records them
type ScanService struct {
	calculator *RiskCalculator
	urlScorer  *URLScorer
	store      ScanStore
	cache      AssessmentCache
	urlTTL     time.Duration
	scanTTL    time.Duration
	logger     *logger.Logger
}

// NewScanService creates a new scan service. Store and cache may be nil, in
// which case scans are not persisted and assessments are not cached.
func NewScanService(calc *RiskCalculator, scorer *URLScorer, store ScanStore, cache AssessmentCache, urlTTL, scanTTL time.Duration, log *logger.Logger) *ScanService {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	if scanTTL <= 0 {
		scanTTL = time.Hour
	}
	return &ScanService{
		calculator: calc,
		urlScorer:  scorer,
		store:      store,
		cache:      cache,
		urlTTL:     urlTTL,
		scanTTL:    scanTTL,
		logger:     log.WithComponent("scan-service"),
	}
}

// AnalyzeApp scores an app's permission set, optionally blending a privacy
// policy score, and records the scan
func (s *ScanService) AnalyzeApp(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	profile, err := s.calculator.Score(ctx, req.Permissions, req.PolicyText)
	if err != nil {
		return nil, fmt.Errorf("failed to score permissions: %w", err)
	}

	record := &models.ScanRecord{
		ID:            uuid.New(),
		UserID:        req.UserID,
		AppName:       req.AppName,
		ScanType:      models.ScanTypePermissions,
		RiskScore:     profile.RiskScore,
		RiskLevel:     profile.RiskLevel,
		Permissions:   profile.Permissions,
		Categories:    profile.Categories,
		CriticalItems: profile.CriticalItems,
	}

	if s.store != nil {
		if _, err := s.store.Create(ctx, record); err != nil {
			// Scan history is best effort, the analysis itself still stands
			s.logger.Error().Err(err).Str("app", req.AppName).Msg("failed to persist scan")
		}
	}

	s.logger.Info().
		Str("scan_id", record.ID.String()).
		Str("app", req.AppName).
		Float64("risk_score", profile.RiskScore).
		Str("risk_level", string(profile.RiskLevel)).
		Msg("app analyzed")

	return &models.ScanResult{ScanID: record.ID, Profile: profile}, nil
}

// AssessURL scores a URL for phishing and malware signals, serving repeated
// lookups from cache
func (s *ScanService) AssessURL(ctx context.Context, rawURL string) (*models.URLRiskAssessment, error) {
	key := urlCacheKey(rawURL)

	if s.cache != nil {
		var cached models.URLRiskAssessment
		if err := s.cache.GetCachedURLAssessment(ctx, key, &cached); err == nil {
			s.logger.Debug().Str("url", rawURL).Msg("url assessment cache hit")
			return &cached, nil
		}
	}

	assessment, err := s.urlScorer.Assess(rawURL)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheURLAssessment(ctx, key, assessment, s.urlTTL); err != nil {
			s.logger.Warn().Err(err).Str("url", rawURL).Msg("failed to cache url assessment")
		}
	}

	s.logger.Info().
		Str("url", rawURL).
		Float64("risk_score", assessment.RiskScore).
		Str("risk_level", string(assessment.RiskLevel)).
		Msg("url assessed")

	return assessment, nil
}

// GetScan retrieves a stored scan by id, serving repeated lookups from cache
func (s *ScanService) GetScan(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error) {
	if s.cache != nil {
		var cached models.ScanRecord
		if err := s.cache.GetCachedScan(ctx, id.String(), &cached); err == nil {
			s.logger.Debug().Str("scan_id", id.String()).Msg("scan cache hit")
			return &cached, nil
		}
	}

	if s.store == nil {
		return nil, models.ErrNotFound
	}
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheScan(ctx, id.String(), record, s.scanTTL); err != nil {
			s.logger.Warn().Err(err).Str("scan_id", id.String()).Msg("failed to cache scan")
		}
	}

	return record, nil
}

// ListScans returns scan history matching the filter
func (s *ScanService) ListScans(ctx context.Context, filter repository.ScanFilter) ([]*models.ScanRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx, filter)
}

func urlCacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}
