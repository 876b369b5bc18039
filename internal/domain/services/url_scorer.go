package services

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"consent-engine/internal/domain/models"
	"consent-engine/pkg/logger"
)

// Rule tables for the heuristic URL scorer. First-match-wins tables are
// ordered slices so tie-break behavior is fixed.
var (
	urlSuspiciousKeywords = []string{
		"login", "secure", "update", "verify", "account", "bank", "confirm",
		"signin", "wp-admin", "reset", "pay", "ebay", "paypal", "webscr",
		"password", "token", "auth", "shell", "cmd", "upload", "admin",
	}

	urlSuspiciousTLDs = []string{
		".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".work",
		".support", ".info", ".ru", ".cn",
	}

	urlShorteners = []string{
		"bit.ly", "goo.gl", "tinyurl.com", "t.co", "ow.ly", "is.gd",
		"buff.ly", "adf.ly", "bit.do", "cutt.ly",
	}

	urlBlacklistedDomains = []string{
		"malware.test", "phishing.test", "badsite.com", "examplebad.com",
	}

	urlObfuscationMarkers = []string{"%2e", "%2f", "%5c", "@", "xn--"}

	urlRiskyExtensions = []string{
		".exe", ".scr", ".zip", ".js", ".php", ".bat", ".cmd", ".jar",
		".vbs", ".ps1",
	}

	urlRiskyPathSegments = []string{"admin", "upload", "shell", "cmd"}

	doubleSubdomainPattern = regexp.MustCompile(`\.\w+\.\w+\.`)
)

// URLScorer is a heuristic phishing/obfuscation risk engine for URL strings.
// All rules run unconditionally in fixed order and penalties stack; the
// score starts at 1.0 and only increases. Stateless and safe for concurrent
// use.
type URLScorer struct {
	logger *logger.Logger
}

// NewURLScorer creates a new URL scorer
func NewURLScorer(log *logger.Logger) *URLScorer {
	return &URLScorer{logger: log.WithComponent("url-scorer")}
}

// Assess scores a URL string. A URL that cannot be parsed is not scoreable
// and returns models.ErrInvalidURL.
func (s *URLScorer) Assess(rawURL string) (*models.URLRiskAssessment, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidURL, rawURL)
	}

	lowerURL := strings.ToLower(rawURL)
	domain := strings.ToLower(parsed.Host)
	if parsed.User != nil {
		// Domain rules run against the full network location, so a real
		// host hidden behind userinfo still trips them.
		domain = strings.ToLower(parsed.User.String()) + "@" + domain
	}
	path := strings.ToLower(parsed.Path)
	query := strings.ToLower(parsed.RawQuery)

	score := 1.0
	details := []string{}

	// 1. HTTPS check
	if !strings.HasPrefix(lowerURL, "https://") {
		score += 3
		details = append(details, "URL is not using HTTPS")
	}

	// 2. Suspicious keywords, first match wins
	for _, keyword := range urlSuspiciousKeywords {
		if strings.Contains(lowerURL, keyword) {
			score += 2
			details = append(details, fmt.Sprintf("Suspicious keyword detected: '%s'", keyword))
			break
		}
	}

	// 3. URL length
	if len(rawURL) < 15 {
		score += 1
		details = append(details, "URL is very short (suspicious)")
	} else if len(rawURL) > 60 {
		score += 1
		details = append(details, "URL is very long (possible obfuscation)")
	}

	// 4. TLD and domain issues
	for _, tld := range urlSuspiciousTLDs {
		if strings.HasSuffix(domain, tld) {
			score += 2
			details = append(details, fmt.Sprintf("Suspicious TLD detected: %s", tld))
			break
		}
	}

	for _, shortener := range urlShorteners {
		if strings.Contains(domain, shortener) {
			score += 2
			details = append(details, fmt.Sprintf("URL uses shortening service: %s", shortener))
			break
		}
	}

	for _, bad := range urlBlacklistedDomains {
		if strings.Contains(domain, bad) {
			score += 5
			details = append(details, "Domain is in blacklist")
			break
		}
	}

	// 5. Obfuscation markers
	for _, marker := range urlObfuscationMarkers {
		if strings.Contains(lowerURL, marker) {
			score += 2
			details = append(details, "URL appears obfuscated")
			break
		}
	}

	// 6. Double subdomain trick
	if doubleSubdomainPattern.MatchString(domain) {
		score += 1
		details = append(details, "Domain may contain deceptive multiple subdomains")
	}

	// 7. Risky file extensions
	for _, ext := range urlRiskyExtensions {
		if strings.HasSuffix(lowerURL, ext) {
			score += 3
			details = append(details, "URL ends with risky file type")
			break
		}
	}

	// 8. Sensitive data in query
	if strings.Contains(query, "password") || strings.Contains(query, "token") || strings.Contains(query, "auth") {
		score += 3
		details = append(details, "URL query contains possible credentials")
	}

	// 9. Risky path patterns
	for _, segment := range urlRiskyPathSegments {
		if strings.Contains(path, segment) {
			score += 2
			details = append(details, "Suspicious path segment detected")
			break
		}
	}

	// 10. High entropy string
	entropy := shannonEntropy(rawURL)
	if entropy > 4.5 {
		score += 1
		details = append(details, fmt.Sprintf("High URL entropy (%.2f) indicates obfuscation", entropy))
	}

	level := models.RiskLevelLow
	switch {
	case score >= 8:
		level = models.RiskLevelHigh
	case score >= 4:
		level = models.RiskLevelMedium
	}

	if len(details) == 0 {
		details = append(details, "No major risks detected")
	}

	s.logger.Debug().
		Str("domain", domain).
		Float64("risk_score", score).
		Str("risk_level", string(level)).
		Msg("URL assessed")

	return &models.URLRiskAssessment{
		URL:       rawURL,
		Domain:    domain,
		RiskScore: round2(score),
		RiskLevel: level,
		Details:   details,
	}, nil
}

// shannonEntropy computes the character-multiset entropy of s in bits
func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}

	counts := make(map[rune]int)
	total := 0
	for _, r := range s {
		counts[r]++
		total++
	}

	var entropy float64
	for _, count := range counts {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
