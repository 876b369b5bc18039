package services

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"consent-engine/internal/domain/models"
	"consent-engine/pkg/logger"
)

// Keyword vocabularies per policy concern area. A sentence belongs to every
// area whose vocabulary it matches.
var policyCategoryKeywords = map[models.PolicyCategory][]string{
	models.PolicyCategoryDataCollection: {
		"collect", "gather", "obtain", "track", "monitor", "record", "log",
		"store", "save", "retain", "capture", "acquire", "compile",
		"aggregate", "harvest", "receive", "access", "extract",
		"personal information", "personal data", "user data", "device data",
		"information we collect", "data we collect", "data collection",
		"data retention", "data storage", "data logging",
	},
	models.PolicyCategoryDataSharing: {
		"share", "disclose", "provide", "transfer", "sell", "third party",
		"partner", "affiliate", "vendor", "supplier", "external", "outside",
		"distribute", "release", "exchange", "grant access", "make available",
		"business partner", "marketing partner", "advertiser",
		"analytics provider", "data broker", "data sharing",
		"data disclosure", "data sale", "data transfer",
	},
	models.PolicyCategoryDataUsage: {
		"use", "process", "analyze", "purpose", "improve", "personalize",
		"advertise", "evaluate", "assess", "study", "research", "develop",
		"test", "enhance", "operate", "manage", "administer", "support",
		"fulfill", "serve", "target", "profiling", "machine learning", "ai",
		"artificial intelligence", "data usage", "data processing",
		"data analysis", "data analytics", "data science",
	},
	models.PolicyCategoryDataSecurity: {
		"protect", "secure", "encrypt", "safeguard", "confidential",
		"security measures", "security", "safety", "defend", "firewall",
		"antivirus", "access control", "data breach", "breach notification",
		"incident response", "data loss prevention", "cybersecurity",
		"compliance", "gdpr", "ccpa", "iso 27001", "data protection",
		"data security", "security protocol", "security policy",
		"security standard",
	},
	models.PolicyCategoryUserRights: {
		"right", "access", "delete", "modify", "control", "opt-out",
		"consent", "revoke", "withdraw", "update", "correct", "rectify",
		"restrict", "object", "portability", "request", "manage",
		"preferences", "settings", "choices", "privacy settings",
		"user rights", "data subject", "data request", "data removal",
		"data correction", "data update", "data access", "data deletion",
		"data erasure",
	},
}

// Risk factors per concern area. Data sharing carries the highest weight;
// security and user-rights language lowers concern rather than raising it,
// so those areas are discounted.
var policyCategoryRiskFactors = map[models.PolicyCategory]float64{
	models.PolicyCategoryDataCollection: 0.8,
	models.PolicyCategoryDataSharing:    1.0,
	models.PolicyCategoryDataUsage:      0.6,
	models.PolicyCategoryDataSecurity:   0.4,
	models.PolicyCategoryUserRights:     0.3,
}

var policyCategoryOrder = []models.PolicyCategory{
	models.PolicyCategoryDataCollection,
	models.PolicyCategoryDataSharing,
	models.PolicyCategoryDataUsage,
	models.PolicyCategoryDataSecurity,
	models.PolicyCategoryUserRights,
}

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

const summarySentenceLimit = 3

// PolicyAnalyzer categorizes privacy policy text into concern areas, scores
// each area and produces a short extractive summary. Deterministic and
// stateless.
type PolicyAnalyzer struct {
	logger *logger.Logger
}

// NewPolicyAnalyzer creates a new policy analyzer
func NewPolicyAnalyzer(log *logger.Logger) *PolicyAnalyzer {
	return &PolicyAnalyzer{logger: log.WithComponent("policy-analyzer")}
}

// Analyze categorizes and scores a privacy policy text
func (a *PolicyAnalyzer) Analyze(policyText string) *models.PolicyAnalysis {
	sentences := splitSentences(policyText)

	categories := make(map[models.PolicyCategory][]string, len(policyCategoryOrder))
	for _, category := range policyCategoryOrder {
		categories[category] = []string{}
	}

	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, category := range policyCategoryOrder {
			for _, keyword := range policyCategoryKeywords[category] {
				if strings.Contains(lower, keyword) {
					categories[category] = append(categories[category], sentence)
					break
				}
			}
		}
	}

	riskScores := make(map[models.PolicyCategory]float64, len(categories))
	var total float64
	for category, points := range categories {
		base := math.Min(float64(len(points))*2, 10)
		score := math.Min(base*policyCategoryRiskFactors[category], 10)
		riskScores[category] = score
		total += score
	}

	analysis := &models.PolicyAnalysis{
		Summary:    a.summarize(sentences),
		Categories: categories,
		RiskScores: riskScores,
	}
	if len(riskScores) > 0 {
		analysis.OverallRisk = round2(total / float64(len(riskScores)))
	}

	a.logger.Debug().
		Int("sentences", len(sentences)).
		Float64("overall_risk", analysis.OverallRisk).
		Msg("policy analyzed")

	return analysis
}

// summarize extracts the sentences densest in concern-area keywords,
// preserving their original order
func (a *PolicyAnalyzer) summarize(sentences []string) string {
	type scored struct {
		index int
		hits  int
	}

	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		lower := strings.ToLower(sentence)
		hits := 0
		for _, category := range policyCategoryOrder {
			for _, keyword := range policyCategoryKeywords[category] {
				if strings.Contains(lower, keyword) {
					hits++
				}
			}
		}
		if hits > 0 {
			ranked = append(ranked, scored{index: i, hits: hits})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].hits > ranked[j].hits
	})
	if len(ranked) > summarySentenceLimit {
		ranked = ranked[:summarySentenceLimit]
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].index < ranked[j].index
	})

	parts := make([]string, 0, len(ranked))
	for _, r := range ranked {
		parts = append(parts, sentences[r.index])
	}
	return strings.Join(parts, ". ")
}

func splitSentences(text string) []string {
	raw := sentenceSplitPattern.Split(text, -1)
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
