package models

// PolicyCategory names a concern area of a privacy policy
type PolicyCategory string

const (
	PolicyCategoryDataCollection PolicyCategory = "data_collection"
	PolicyCategoryDataSharing    PolicyCategory = "data_sharing"
	PolicyCategoryDataUsage      PolicyCategory = "data_usage"
	PolicyCategoryDataSecurity   PolicyCategory = "data_security"
	PolicyCategoryUserRights     PolicyCategory = "user_rights"
)

// PolicyAnalysis is the output of the policy text analyzer: an extractive
// summary, the sentences grouped by concern area, and per-area risk scores.
type PolicyAnalysis struct {
	Summary     string                      `json:"summary"`
	Categories  map[PolicyCategory][]string `json:"categories"`
	RiskScores  map[PolicyCategory]float64  `json:"risk_scores"`
	OverallRisk float64                     `json:"overall_risk"`
}
