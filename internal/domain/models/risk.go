package models

// RiskLevel classifies a score into a coarse band
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// PermissionCategory groups related permissions for category scoring
type PermissionCategory string

const (
	PermissionCategorySMS      PermissionCategory = "SMS"
	PermissionCategoryContacts PermissionCategory = "Contacts"
	PermissionCategoryLocation PermissionCategory = "Location"
	PermissionCategoryStorage  PermissionCategory = "Storage"
	PermissionCategoryPhone    PermissionCategory = "Phone"
	PermissionCategoryMedia    PermissionCategory = "Media"
	PermissionCategoryNetwork  PermissionCategory = "Network"
	PermissionCategorySystem   PermissionCategory = "System"
)

// PermissionDetail is the per-permission entry of a risk profile. The name
// field keeps the caller's original (possibly vendor-prefixed) identifier.
type PermissionDetail struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Risk        float64   `json:"risk"` // catalog weight scaled to 0-10
	RiskLevel   RiskLevel `json:"risk_level"`
	Enabled     bool      `json:"enabled"`
	Remediation string    `json:"remediation"`
}

// RiskProfile is the result of scoring a permission list, optionally blended
// with a policy text classification.
type RiskProfile struct {
	RiskScore      float64                        `json:"risk_score"`
	RiskLevel      RiskLevel                      `json:"risk_level"`
	Categories     map[PermissionCategory]float64 `json:"categories"`
	CriticalItems  []string                       `json:"critical_items"`
	Permissions    []PermissionDetail             `json:"permissions"`
	PolicyBlended  bool                           `json:"policy_blended"`
	PermissionRisk float64                        `json:"permission_risk"`
	PolicyRisk     float64                        `json:"policy_risk,omitempty"`
}

// PermissionKnowledge carries the knowledge-base entry for a permission
type PermissionKnowledge struct {
	Risk       string `json:"risk,omitempty"`
	Abuse      string `json:"abuse,omitempty"`
	Compliance string `json:"compliance,omitempty"`
}

// RiskLevelForScore maps a 0-10 score to the band used for permission scans
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 7.0:
		return RiskLevelHigh
	case score >= 4.0:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
