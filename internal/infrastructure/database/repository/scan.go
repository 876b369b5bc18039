package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"consent-engine/internal/domain/models"
	"consent-engine/internal/infrastructure/database"
)

// ScanFilter defines filtering options for listing scan records
type ScanFilter struct {
	UserID   string
	ScanType models.ScanType
	Limit    int
	Offset   int
}

// ScanStats holds aggregate scan statistics
type ScanStats struct {
	TotalCount   int64            `json:"total_count"`
	ByLevel      map[string]int64 `json:"by_level"`
	AverageScore float64          `json:"average_score"`
	TodayNew     int64            `json:"today_new"`
}

// ScanRepository handles scan history persistence. It runs against any
// database.DBTX, so callers can scope it to a transaction.
type ScanRepository struct {
	db database.DBTX
}

// NewScanRepository creates a new scan repository
func NewScanRepository(db database.DBTX) *ScanRepository {
	return &ScanRepository{db: db}
}

const createScanSQL = `
INSERT INTO scans (
	id, user_id, app_name, scan_type, risk_score, risk_level,
	permissions, categories, critical_items, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at`

// Create inserts a new scan record
func (r *ScanRepository) Create(ctx context.Context, s *models.ScanRecord) (*models.ScanRecord, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRow(ctx, createScanSQL,
		s.ID,
		s.UserID,
		s.AppName,
		s.ScanType,
		s.RiskScore,
		s.RiskLevel,
		s.Permissions,
		s.Categories,
		s.CriticalItems,
		s.CreatedAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan: %w", err)
	}

	return s, nil
}

const getScanSQL = `
SELECT id, user_id, app_name, scan_type, risk_score, risk_level,
	permissions, categories, critical_items, created_at
FROM scans
WHERE id = $1`

// GetByID retrieves a scan record by its id
func (r *ScanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error) {
	var s models.ScanRecord
	err := r.db.QueryRow(ctx, getScanSQL, id).Scan(
		&s.ID,
		&s.UserID,
		&s.AppName,
		&s.ScanType,
		&s.RiskScore,
		&s.RiskLevel,
		&s.Permissions,
		&s.Categories,
		&s.CriticalItems,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return &s, nil
}

const listScansSQL = `
SELECT id, user_id, app_name, scan_type, risk_score, risk_level,
	permissions, categories, critical_items, created_at
FROM scans
WHERE ($1 = '' OR user_id = $1)
  AND ($2 = '' OR scan_type = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

// List returns scan records matching the filter, newest first
func (r *ScanRepository) List(ctx context.Context, filter ScanFilter) ([]*models.ScanRecord, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, listScansSQL,
		filter.UserID,
		string(filter.ScanType),
		limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []*models.ScanRecord
	for rows.Next() {
		var s models.ScanRecord
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.AppName,
			&s.ScanType,
			&s.RiskScore,
			&s.RiskLevel,
			&s.Permissions,
			&s.Categories,
			&s.CriticalItems,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scans: %w", err)
	}

	return scans, nil
}

const deleteScanSQL = `DELETE FROM scans WHERE id = $1`

// Delete removes a scan record
func (r *ScanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteScanSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

const scanStatsSQL = `
SELECT
	COUNT(*),
	COALESCE(AVG(risk_score), 0),
	COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now()))
FROM scans`

const scanStatsByLevelSQL = `
SELECT risk_level, COUNT(*)
FROM scans
GROUP BY risk_level`

// Stats returns aggregate statistics over all scans
func (r *ScanRepository) Stats(ctx context.Context) (*ScanStats, error) {
	stats := &ScanStats{ByLevel: make(map[string]int64)}

	err := r.db.QueryRow(ctx, scanStatsSQL).Scan(
		&stats.TotalCount,
		&stats.AverageScore,
		&stats.TodayNew,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan stats: %w", err)
	}

	rows, err := r.db.Query(ctx, scanStatsByLevelSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan stats by level: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int64
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.ByLevel[level] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stats: %w", err)
	}

	return stats, nil
}
