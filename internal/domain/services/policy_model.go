package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"time"

	"consent-engine/pkg/logger"
)

// PolicyRiskModel is a pre-trained text classifier scoring privacy policy
// text into a high-risk probability. The artifact is produced by an offline
// training pipeline and consumed here as an opaque versioned file: a TF-IDF
// vocabulary plus logistic regression coefficients, serialized as JSON.
//
// The model is loaded once at startup and read-only afterwards; Score is
// deterministic and safe for unsynchronized concurrent use.
type PolicyRiskModel struct {
	version      string
	vocabulary   map[string]int
	idf          []float64
	coefficients []float64
	intercept    float64
	loadedAt     time.Time
	logger       *logger.Logger
}

// policyModelArtifact is the on-disk artifact layout
type policyModelArtifact struct {
	Version      string         `json:"version"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Coefficients []float64      `json:"coefficients"`
	Intercept    float64        `json:"intercept"`
}

// PolicyModelInfo describes the loaded artifact
type PolicyModelInfo struct {
	Version   string    `json:"version"`
	TermCount int       `json:"term_count"`
	LoadedAt  time.Time `json:"loaded_at"`
}

var tokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// LoadPolicyRiskModel loads and validates a model artifact. Any failure here
// is a configuration error: the caller must treat it as fatal and refuse to
// serve requests with a half-present model.
func LoadPolicyRiskModel(path string, log *logger.Logger) (*PolicyRiskModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy model artifact: %w", err)
	}

	var artifact policyModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse policy model artifact: %w", err)
	}

	n := len(artifact.Vocabulary)
	if n == 0 {
		return nil, fmt.Errorf("policy model artifact %s has an empty vocabulary", path)
	}
	if len(artifact.IDF) != n || len(artifact.Coefficients) != n {
		return nil, fmt.Errorf("policy model artifact %s is inconsistent: %d terms, %d idf weights, %d coefficients",
			path, n, len(artifact.IDF), len(artifact.Coefficients))
	}
	for term, idx := range artifact.Vocabulary {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("policy model term %q has index %d outside [0,%d)", term, idx, n)
		}
	}

	log.WithComponent("policy-model").Info().
		Str("version", artifact.Version).
		Int("terms", n).
		Msg("policy risk model loaded")

	return &PolicyRiskModel{
		version:      artifact.Version,
		vocabulary:   artifact.Vocabulary,
		idf:          artifact.IDF,
		coefficients: artifact.Coefficients,
		intercept:    artifact.Intercept,
		loadedAt:     time.Now(),
		logger:       log.WithComponent("policy-model"),
	}, nil
}

// Score returns the probability in [0,1] that the text is high-risk. The
// text is tokenized, vectorized against the artifact vocabulary with TF-IDF
// weighting and L2 normalization, then passed through the logistic layer.
func (m *PolicyRiskModel) Score(text string) (float64, error) {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	counts := make(map[int]float64)
	for _, token := range tokens {
		if idx, ok := m.vocabulary[token]; ok {
			counts[idx]++
		}
	}

	// TF-IDF with L2 normalization
	var norm float64
	weights := make(map[int]float64, len(counts))
	for idx, tf := range counts {
		w := tf * m.idf[idx]
		weights[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range weights {
			weights[idx] /= norm
		}
	}

	logit := m.intercept
	for idx, w := range weights {
		logit += w * m.coefficients[idx]
	}

	return sigmoid(logit), nil
}

// Info returns metadata about the loaded artifact
func (m *PolicyRiskModel) Info() PolicyModelInfo {
	return PolicyModelInfo{
		Version:   m.version,
		TermCount: len(m.vocabulary),
		LoadedAt:  m.loadedAt,
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
