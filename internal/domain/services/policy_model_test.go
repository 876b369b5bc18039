package services

import (
	"os"
	"path/filepath"
	"testing"

	"consent-engine/pkg/logger"
)

func writeModelArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validArtifact = `{
	"version": "2024-06-01",
	"vocabulary": {"collect": 0, "share": 1, "delete": 2},
	"idf": [1.0, 1.0, 1.0],
	"coefficients": [2.0, 3.0, -1.5],
	"intercept": -1.0
}`

func TestLoadPolicyRiskModel(t *testing.T) {
	path := writeModelArtifact(t, validArtifact)

	m, err := LoadPolicyRiskModel(path, logger.NewNop())
	if err != nil {
		t.Fatalf("LoadPolicyRiskModel: %v", err)
	}

	info := m.Info()
	if info.Version != "2024-06-01" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.TermCount != 3 {
		t.Errorf("TermCount = %d, want 3", info.TermCount)
	}
}

func TestPolicyModelScore(t *testing.T) {
	path := writeModelArtifact(t, validArtifact)
	m, err := LoadPolicyRiskModel(path, logger.NewNop())
	if err != nil {
		t.Fatalf("LoadPolicyRiskModel: %v", err)
	}

	risky, err := m.Score("We share and share your data, and we collect everything.")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if risky <= 0.5 {
		t.Errorf("risky text probability = %v, want > 0.5", risky)
	}

	// no vocabulary terms leaves only the intercept, which is negative
	neutral, err := m.Score("hello world")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if neutral >= 0.5 {
		t.Errorf("neutral text probability = %v, want < 0.5", neutral)
	}

	if risky <= neutral {
		t.Errorf("risky %v should exceed neutral %v", risky, neutral)
	}

	// deterministic across calls
	again, err := m.Score("We share and share your data, and we collect everything.")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if again != risky {
		t.Errorf("Score not deterministic: %v != %v", again, risky)
	}
}

func TestPolicyModelScoreIsCaseInsensitive(t *testing.T) {
	path := writeModelArtifact(t, validArtifact)
	m, err := LoadPolicyRiskModel(path, logger.NewNop())
	if err != nil {
		t.Fatalf("LoadPolicyRiskModel: %v", err)
	}

	lower, _ := m.Score("we collect and share")
	upper, _ := m.Score("WE COLLECT AND SHARE")
	if lower != upper {
		t.Errorf("case sensitivity: %v != %v", lower, upper)
	}
}

func TestLoadPolicyRiskModelValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty vocabulary", `{"version":"v1","vocabulary":{},"idf":[],"coefficients":[],"intercept":0}`},
		{"length mismatch", `{"version":"v1","vocabulary":{"a":0,"b":1},"idf":[1.0],"coefficients":[1.0,2.0],"intercept":0}`},
		{"index out of range", `{"version":"v1","vocabulary":{"a":0,"b":5},"idf":[1.0,1.0],"coefficients":[1.0,2.0],"intercept":0}`},
		{"not json", `never valid`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeModelArtifact(t, tt.content)
			if _, err := LoadPolicyRiskModel(path, logger.NewNop()); err == nil {
				t.Error("expected load to fail")
			}
		})
	}
}

func TestLoadPolicyRiskModelMissingFile(t *testing.T) {
	if _, err := LoadPolicyRiskModel(filepath.Join(t.TempDir(), "nope.json"), logger.NewNop()); err == nil {
		t.Error("expected error for missing artifact")
	}
}
