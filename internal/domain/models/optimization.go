package models

// PermissionRecommendation suggests removing one permission and reports the
// marginal risk reduction from removing it while holding the rest fixed.
type PermissionRecommendation struct {
	Permission    string              `json:"permission"`
	RiskReduction float64             `json:"risk_reduction"`
	Remediation   string              `json:"remediation"`
	Knowledge     PermissionKnowledge `json:"knowledge"`
}

// OptimizationResult is the output of the permission optimizer.
//
// Recommendations are independent leave-one-out estimates against the full
// requested set; they are not guaranteed to be jointly consistent when
// several permissions are removed at once.
type OptimizationResult struct {
	MinimalPermissions     []string                       `json:"minimal_permissions"`
	UnnecessaryPermissions []string                       `json:"unnecessary_permissions"`
	Recommendations        []PermissionRecommendation     `json:"recommendations"`
	BaseRisk               float64                        `json:"base_risk"`
	KnowledgeBase          map[string]PermissionKnowledge `json:"knowledge_base"`
	PolicySummary          string                         `json:"policy_summary"`
	CurrentPermissions     []string                       `json:"current_permissions,omitempty"`
}
