package models

// URLRiskAssessment is the result of the heuristic URL scorer. The score
// starts at 1.0 and rules only add to it, so it has no fixed upper bound.
type URLRiskAssessment struct {
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	RiskScore float64   `json:"risk_score"`
	RiskLevel RiskLevel `json:"risk_level"`
	Details   []string  `json:"details"`
}
