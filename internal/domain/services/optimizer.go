package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"consent-engine/internal/domain/models"
	"consent-engine/pkg/logger"
)

// Feature tags map to the minimal permission set that feature needs. Unknown
// tags contribute nothing.
var featurePermissions = map[string][]string{
	"camera":   {"CAMERA"},
	"location": {"ACCESS_FINE_LOCATION", "ACCESS_COARSE_LOCATION"},
	"contacts": {"READ_CONTACTS"},
	"sms":      {"SEND_SMS", "RECEIVE_SMS"},
	"storage":  {"READ_EXTERNAL_STORAGE", "WRITE_EXTERNAL_STORAGE"},
	"audio":    {"RECORD_AUDIO"},
	"phone":    {"READ_PHONE_STATE"},
	"network":  {"INTERNET", "ACCESS_NETWORK_STATE", "ACCESS_WIFI_STATE"},
}

// PermissionOptimizer recommends permission removals based on marginal risk
// impact. Each recommendation is an independent leave-one-out estimate
// against the full requested set; it does not search permission
// subsets, so removing every recommended permission at once is not
// guaranteed to reduce risk by the sum of the individual reductions.
type PermissionOptimizer struct {
	calc   *RiskCalculator
	logger *logger.Logger
}

// NewPermissionOptimizer creates a new permission optimizer
func NewPermissionOptimizer(calc *RiskCalculator, log *logger.Logger) *PermissionOptimizer {
	return &PermissionOptimizer{
		calc:   calc,
		logger: log.WithComponent("permission-optimizer"),
	}
}

// MinimalSet returns the union of required permissions over the given
// feature tags, sorted for stable output
func (o *PermissionOptimizer) MinimalSet(features []string) []string {
	set := make(map[string]struct{})
	for _, feature := range features {
		for _, perm := range featurePermissions[feature] {
			set[perm] = struct{}{}
		}
	}

	minimal := make([]string, 0, len(set))
	for perm := range set {
		minimal = append(minimal, perm)
	}
	sort.Strings(minimal)
	return minimal
}

// Optimize computes the feature-minimal permission set and, for every
// requested permission outside it, the marginal risk reduction from removing
// just that permission
func (o *PermissionOptimizer) Optimize(ctx context.Context, features, requested []string, policyText, policySummary string) (*models.OptimizationResult, error) {
	minimal := o.MinimalSet(features)
	minimalSet := make(map[string]struct{}, len(minimal))
	for _, perm := range minimal {
		minimalSet[perm] = struct{}{}
	}

	base, err := o.calc.Score(ctx, requested, policyText)
	if err != nil {
		return nil, fmt.Errorf("failed to score requested permissions: %w", err)
	}

	result := &models.OptimizationResult{
		MinimalPermissions:     minimal,
		UnnecessaryPermissions: []string{},
		Recommendations:        []models.PermissionRecommendation{},
		BaseRisk:               base.RiskScore,
		KnowledgeBase:          make(map[string]models.PermissionKnowledge, len(requested)),
		PolicySummary:          policySummary,
		CurrentPermissions:     requested,
	}

	for _, perm := range requested {
		key := o.calc.normalizer.Normalize(perm)
		result.KnowledgeBase[perm] = o.calc.catalog.Knowledge(key)

		if _, needed := minimalSet[key]; needed {
			continue
		}
		result.UnnecessaryPermissions = append(result.UnnecessaryPermissions, perm)

		without := removeAll(requested, perm)
		profile, err := o.calc.Score(ctx, without, policyText)
		if err != nil {
			return nil, fmt.Errorf("failed to score permissions without %s: %w", perm, err)
		}

		if profile.RiskScore < base.RiskScore {
			result.Recommendations = append(result.Recommendations, models.PermissionRecommendation{
				Permission:    perm,
				RiskReduction: round2(base.RiskScore - profile.RiskScore),
				Remediation:   o.calc.catalog.Remediation(key),
				Knowledge:     o.calc.catalog.Knowledge(key),
			})
		}
	}

	o.logger.Debug().
		Int("requested", len(requested)).
		Int("unnecessary", len(result.UnnecessaryPermissions)).
		Int("recommendations", len(result.Recommendations)).
		Float64("base_risk", result.BaseRisk).
		Msg("permission optimization completed")

	return result, nil
}

// FlagComplianceIssues warns about high-risk permissions when the policy
// summary lacks any consent language. Pure, no side effects.
func (o *PermissionOptimizer) FlagComplianceIssues(requested []string, policySummary string) []string {
	hasConsent := strings.Contains(strings.ToLower(policySummary), "consent")

	issues := []string{}
	for _, perm := range requested {
		knowledge := o.calc.catalog.Knowledge(o.calc.normalizer.Normalize(perm))
		if knowledge.Risk == "High" && !hasConsent {
			issues = append(issues, fmt.Sprintf("%s: High-risk permission with weak/no consent in policy.", perm))
		}
	}
	return issues
}

// removeAll returns perms without every occurrence of target
func removeAll(perms []string, target string) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if p != target {
			out = append(out, p)
		}
	}
	return out
}
