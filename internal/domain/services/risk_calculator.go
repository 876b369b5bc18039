package services

import (
	"context"
	"fmt"
	"math"

	"consent-engine/internal/domain/models"
	"consent-engine/pkg/logger"
)

// PolicyScorer is the classifier contract the calculator depends on. The
// artifact behind it is opaque; only a deterministic text -> probability
// function is required.
type PolicyScorer interface {
	Score(text string) (float64, error)
}

// RiskCalculator computes overall and per-category risk scores, critical
// items and formatted permission detail from a permission list, optionally
// blended with the policy classifier output.
//
// All state is read-only after construction; Score is safe for concurrent use.
type RiskCalculator struct {
	catalog    *PermissionCatalog
	normalizer *PermissionNormalizer
	policy     PolicyScorer
	logger     *logger.Logger
}

// NewRiskCalculator creates a new risk calculator. The policy scorer may be
// nil only when callers never supply policy text.
func NewRiskCalculator(catalog *PermissionCatalog, normalizer *PermissionNormalizer, policy PolicyScorer, log *logger.Logger) *RiskCalculator {
	return &RiskCalculator{
		catalog:    catalog,
		normalizer: normalizer,
		policy:     policy,
		logger:     log.WithComponent("risk-calculator"),
	}
}

// Score computes the risk profile for a permission list. An empty list is
// valid and yields a zero-everywhere profile. When policyText is non-empty
// the classifier output is averaged in; a classifier failure fails the whole
// call rather than degrading to a permission-only score.
func (c *RiskCalculator) Score(ctx context.Context, permissions []string, policyText string) (*models.RiskProfile, error) {
	permissionRisk := c.permissionRisk(permissions)

	profile := &models.RiskProfile{
		PermissionRisk: round2(permissionRisk),
		Categories:     c.categoryRisks(permissions),
		CriticalItems:  c.criticalItems(permissions),
		Permissions:    c.formatPermissions(permissions),
	}

	finalRisk := permissionRisk
	if policyText != "" {
		if c.policy == nil {
			return nil, fmt.Errorf("policy text supplied but no policy model is loaded")
		}
		prob, err := c.policy.Score(policyText)
		if err != nil {
			return nil, fmt.Errorf("policy model inference failed: %w", err)
		}
		policyRisk := prob * 10
		finalRisk = (permissionRisk + policyRisk) / 2
		profile.PolicyBlended = true
		profile.PolicyRisk = round2(policyRisk)
	}

	profile.RiskScore = round2(finalRisk)
	profile.RiskLevel = models.RiskLevelForScore(profile.RiskScore)

	c.logger.Debug().
		Int("permissions", len(permissions)).
		Bool("policy_blended", profile.PolicyBlended).
		Float64("risk_score", profile.RiskScore).
		Msg("risk profile computed")

	return profile, nil
}

// permissionRisk is the ratio of matched weights to the full catalog weight,
// scaled to 0-10. Duplicate inputs double-count their weight.
func (c *RiskCalculator) permissionRisk(permissions []string) float64 {
	maxWeight := c.catalog.TotalWeight()
	if maxWeight == 0 {
		return 0
	}

	var total float64
	for _, perm := range permissions {
		if w, ok := c.catalog.Weight(c.normalizer.Normalize(perm)); ok {
			total += w
		}
	}

	return (total / maxWeight) * 10
}

// categoryRisks applies the same ratio restricted to each category's member
// set. Categories whose members carry no catalog weight score 0.
func (c *RiskCalculator) categoryRisks(permissions []string) map[models.PermissionCategory]float64 {
	risks := make(map[models.PermissionCategory]float64)

	for category, members := range c.catalog.Categories() {
		maxWeight := c.catalog.CategoryWeight(category)
		if maxWeight == 0 {
			risks[category] = 0
			continue
		}

		var total float64
		for _, member := range members {
			for _, perm := range permissions {
				if c.normalizer.Normalize(perm) == member {
					if w, ok := c.catalog.Weight(member); ok {
						total += w
					}
				}
			}
		}

		risks[category] = round2((total / maxWeight) * 10)
	}

	return risks
}

// Critical combination rules, evaluated in fixed order before the
// per-permission rule. Messages are never deduplicated across rules.
var criticalCombos = []struct {
	required []string
	message  string
}{
	{[]string{"READ_SMS", "RECEIVE_SMS"}, "App can read and receive SMS messages"},
	{[]string{"ACCESS_FINE_LOCATION", "ACCESS_COARSE_LOCATION"}, "App has access to precise location data"},
	{[]string{"CAMERA", "RECORD_AUDIO"}, "App can access camera and record audio"},
}

func (c *RiskCalculator) criticalItems(permissions []string) []string {
	present := make(map[string]bool, len(permissions))
	var unique []string // first-occurrence order of normalized keys
	for _, perm := range permissions {
		key := c.normalizer.Normalize(perm)
		if !present[key] {
			present[key] = true
			unique = append(unique, key)
		}
	}

	items := []string{}
	for _, combo := range criticalCombos {
		all := true
		for _, key := range combo.required {
			if !present[key] {
				all = false
				break
			}
		}
		if all {
			items = append(items, combo.message)
		}
	}

	for _, key := range unique {
		if w, ok := c.catalog.Weight(key); ok && w >= WeightHigh {
			items = append(items, fmt.Sprintf("App requests %s permission", humanizePermission(key)))
		}
	}

	return items
}

// formatPermissions produces one detail record per original input entry, in
// input order and with duplicates preserved. Unknown permissions get weight
// zero, a low risk level and generic advisory text.
func (c *RiskCalculator) formatPermissions(permissions []string) []models.PermissionDetail {
	details := make([]models.PermissionDetail, 0, len(permissions))

	for _, perm := range permissions {
		key := c.normalizer.Normalize(perm)
		weight, _ := c.catalog.Weight(key)

		level := models.RiskLevelLow
		switch {
		case weight >= WeightHigh:
			level = models.RiskLevelHigh
		case weight >= WeightMedium:
			level = models.RiskLevelMedium
		}

		details = append(details, models.PermissionDetail{
			Name:        perm,
			Description: c.catalog.Description(key),
			Risk:        weight * 10,
			RiskLevel:   level,
			Enabled:     true,
			Remediation: c.catalog.Remediation(key),
		})
	}

	return details
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
