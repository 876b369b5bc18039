package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanType distinguishes stored scan records
type ScanType string

const (
	ScanTypePermissions ScanType = "permissions"
	ScanTypeURL         ScanType = "url"
)

// ScanRecord is a persisted risk analysis
type ScanRecord struct {
	ID            uuid.UUID                      `json:"id"`
	UserID        string                         `json:"user_id"`
	AppName       string                         `json:"app_name"`
	ScanType      ScanType                       `json:"scan_type"`
	RiskScore     float64                        `json:"risk_score"`
	RiskLevel     RiskLevel                      `json:"risk_level"`
	Permissions   []PermissionDetail             `json:"permissions"`
	Categories    map[PermissionCategory]float64 `json:"categories"`
	CriticalItems []string                       `json:"critical_items"`
	CreatedAt     time.Time                      `json:"created_at"`
}

// ScanRequest is the input for a permission scan
type ScanRequest struct {
	UserID      string   `json:"user_id"`
	AppName     string   `json:"app_name"`
	Permissions []string `json:"permissions"`
	PolicyText  string   `json:"policy_text,omitempty"`
}

// ScanResult pairs a stored record id with its risk profile
type ScanResult struct {
	ScanID  uuid.UUID    `json:"scan_id"`
	Profile *RiskProfile `json:"profile"`
}
