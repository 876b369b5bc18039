package services

import (
	"errors"
	"strings"
	"testing"

	"consent-engine/internal/domain/models"
	"consent-engine/pkg/logger"
)

func newTestURLScorer() *URLScorer {
	return NewURLScorer(logger.NewNop())
}

func TestAssessCleanURL(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("https://example.com/home")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if a.RiskScore != 1.0 {
		t.Errorf("RiskScore = %v, want 1.0", a.RiskScore)
	}
	if a.RiskLevel != models.RiskLevelLow {
		t.Errorf("RiskLevel = %v, want low", a.RiskLevel)
	}
	if len(a.Details) != 1 || a.Details[0] != "No major risks detected" {
		t.Errorf("Details = %v", a.Details)
	}
	if a.Domain != "example.com" {
		t.Errorf("Domain = %q", a.Domain)
	}
}

func TestAssessShortenerOverHTTP(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("http://bit.ly/abc")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// +3 no HTTPS, +2 shortener
	if a.RiskScore != 6.0 {
		t.Errorf("RiskScore = %v, want 6.0", a.RiskScore)
	}
	if a.RiskLevel != models.RiskLevelMedium {
		t.Errorf("RiskLevel = %v, want medium", a.RiskLevel)
	}

	wantDetails := []string{
		"URL is not using HTTPS",
		"URL uses shortening service: bit.ly",
	}
	for _, want := range wantDetails {
		found := false
		for _, d := range a.Details {
			if d == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Details missing %q, got %v", want, a.Details)
		}
	}
}

func TestAssessSuspiciousTLDAndShortLength(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("http://x.tk")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// +3 no HTTPS, +1 very short, +2 suspicious TLD
	if a.RiskScore != 7.0 {
		t.Errorf("RiskScore = %v, want 7.0", a.RiskScore)
	}
	if a.RiskLevel != models.RiskLevelMedium {
		t.Errorf("RiskLevel = %v, want medium", a.RiskLevel)
	}
}

func TestAssessBlacklistAndRiskyExtension(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("https://badsite.com/file.exe")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// +5 blacklist, +3 risky extension
	if a.RiskScore != 9.0 {
		t.Errorf("RiskScore = %v, want 9.0", a.RiskScore)
	}
	if a.RiskLevel != models.RiskLevelHigh {
		t.Errorf("RiskLevel = %v, want high", a.RiskLevel)
	}
}

func TestAssessLongURL(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("https://example.com/" + strings.Repeat("a", 46))
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// +1 length over 60
	if a.RiskScore != 2.0 {
		t.Errorf("RiskScore = %v, want 2.0", a.RiskScore)
	}
	if a.RiskLevel != models.RiskLevelLow {
		t.Errorf("RiskLevel = %v, want low", a.RiskLevel)
	}
	if len(a.Details) != 1 || a.Details[0] != "URL is very long (possible obfuscation)" {
		t.Errorf("Details = %v", a.Details)
	}
}

func TestAssessObfuscationMarker(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("https://example.com/file%2e")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// +2 obfuscation marker
	if a.RiskScore != 3.0 {
		t.Errorf("RiskScore = %v, want 3.0", a.RiskScore)
	}
	if a.RiskLevel != models.RiskLevelLow {
		t.Errorf("RiskLevel = %v, want low", a.RiskLevel)
	}
	if len(a.Details) != 1 || a.Details[0] != "URL appears obfuscated" {
		t.Errorf("Details = %v", a.Details)
	}
}

func TestAssessDoubleSubdomain(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("https://www.mail.example.com/")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// +1 stacked subdomains
	if a.RiskScore != 2.0 {
		t.Errorf("RiskScore = %v, want 2.0", a.RiskScore)
	}
	if len(a.Details) != 1 || a.Details[0] != "Domain may contain deceptive multiple subdomains" {
		t.Errorf("Details = %v", a.Details)
	}
}

func TestAssessRiskyPathSegment(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("https://example.com/data/upload/x")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// "upload" is both a suspicious keyword (+2) and a risky path segment (+2)
	if a.RiskScore != 5.0 {
		t.Errorf("RiskScore = %v, want 5.0", a.RiskScore)
	}
	if a.RiskLevel != models.RiskLevelMedium {
		t.Errorf("RiskLevel = %v, want medium", a.RiskLevel)
	}

	found := false
	for _, d := range a.Details {
		if d == "Suspicious path segment detected" {
			found = true
		}
	}
	if !found {
		t.Errorf("Details missing path warning, got %v", a.Details)
	}
}

func TestAssessUserinfoInNetworkLocation(t *testing.T) {
	s := newTestURLScorer()

	// the real host hides behind userinfo; the domain rules must see both
	a, err := s.Assess("https://trusted.com@evil.tk/page")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if a.Domain != "trusted.com@evil.tk" {
		t.Errorf("Domain = %q, want full network location", a.Domain)
	}
	// +2 suspicious TLD, +2 '@' obfuscation marker
	if a.RiskScore != 5.0 {
		t.Errorf("RiskScore = %v, want 5.0", a.RiskScore)
	}

	// a shortener smuggled into userinfo still hits the shortener rule
	a, err = s.Assess("https://bit.ly@example.com/docs")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	found := false
	for _, d := range a.Details {
		if d == "URL uses shortening service: bit.ly" {
			found = true
		}
	}
	if !found {
		t.Errorf("Details missing shortener warning, got %v", a.Details)
	}
}

func TestAssessCredentialsInQuery(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("https://example.com/welcome?token=abc123")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// the keyword rule also fires on 'token', so +2 keyword +3 query
	if a.RiskScore != 6.0 {
		t.Errorf("RiskScore = %v, want 6.0", a.RiskScore)
	}

	found := false
	for _, d := range a.Details {
		if d == "URL query contains possible credentials" {
			found = true
		}
	}
	if !found {
		t.Errorf("Details missing credentials warning, got %v", a.Details)
	}
}

func TestAssessKeywordFirstMatchWins(t *testing.T) {
	s := newTestURLScorer()

	// both "login" and "secure" appear; only the first table entry is reported
	a, err := s.Assess("https://example.com/login/secure")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	keywordHits := 0
	for _, d := range a.Details {
		if strings.HasPrefix(d, "Suspicious keyword detected:") {
			keywordHits++
			if d != "Suspicious keyword detected: 'login'" {
				t.Errorf("keyword detail = %q, want login", d)
			}
		}
	}
	if keywordHits != 1 {
		t.Errorf("keyword hits = %d, want 1", keywordHits)
	}
}

func TestAssessHighEntropy(t *testing.T) {
	s := newTestURLScorer()

	a, err := s.Assess("https://abcdefgh.org/ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	found := false
	for _, d := range a.Details {
		if strings.HasPrefix(d, "High URL entropy") {
			found = true
		}
	}
	if !found {
		t.Errorf("Details missing entropy warning, got %v", a.Details)
	}
	if a.RiskScore != 2.0 {
		t.Errorf("RiskScore = %v, want 2.0", a.RiskScore)
	}
}

func TestAssessInvalidURL(t *testing.T) {
	s := newTestURLScorer()

	_, err := s.Assess("://missing-scheme")
	if !errors.Is(err, models.ErrInvalidURL) {
		t.Errorf("err = %v, want ErrInvalidURL", err)
	}
}

func TestShannonEntropy(t *testing.T) {
	if got := shannonEntropy(""); got != 0 {
		t.Errorf("entropy of empty string = %v, want 0", got)
	}
	if got := shannonEntropy("aaaa"); got != 0 {
		t.Errorf("entropy of uniform string = %v, want 0", got)
	}
	// two symbols at equal frequency carry exactly one bit
	if got := shannonEntropy("abab"); got != 1.0 {
		t.Errorf("entropy of abab = %v, want 1.0", got)
	}
}
