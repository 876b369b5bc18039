package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"consent-engine/internal/domain/models"
	"consent-engine/internal/domain/services"
	"consent-engine/pkg/logger"
)

func newTestOptimizeHandler() *OptimizeHandler {
	log := logger.NewNop()
	catalog := services.NewPermissionCatalog()
	calc := services.NewRiskCalculator(catalog, services.NewPermissionNormalizer(), nil, log)
	opt := services.NewPermissionOptimizer(calc, log)
	return NewOptimizeHandler(opt, services.NewPolicyAnalyzer(log), catalog, log)
}

func TestOptimizeHandler(t *testing.T) {
	h := newTestOptimizeHandler()

	body := `{"features":["camera"],"permissions":["CAMERA","READ_CONTACTS","VIBRATE"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/permissions/optimize", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.OptimizationResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.MinimalPermissions) != 1 || result.MinimalPermissions[0] != "CAMERA" {
		t.Errorf("MinimalPermissions = %v", result.MinimalPermissions)
	}
	if len(result.UnnecessaryPermissions) != 2 {
		t.Errorf("UnnecessaryPermissions = %v", result.UnnecessaryPermissions)
	}
}

func TestOptimizeHandlerRequiresPermissions(t *testing.T) {
	h := newTestOptimizeHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/permissions/optimize", strings.NewReader(`{"features":["camera"]}`))
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMinimalSetHandler(t *testing.T) {
	h := newTestOptimizeHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/permissions/minimal", strings.NewReader(`{"features":["sms","location"]}`))
	rec := httptest.NewRecorder()

	h.MinimalSet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Minimal []string `json:"minimal_permissions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Minimal) != 4 {
		t.Errorf("minimal_permissions = %v, want 4 entries", resp.Minimal)
	}
}

func TestPolicyAnalyzeHandler(t *testing.T) {
	log := logger.NewNop()
	h := NewPolicyHandler(services.NewPolicyAnalyzer(log), nil, log)

	body := `{"policy_text":"We share your data with third party advertisers."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/policy/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var analysis models.PolicyAnalysis
	if err := json.NewDecoder(rec.Body).Decode(&analysis); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if analysis.OverallRisk != 0.64 {
		t.Errorf("OverallRisk = %v, want 0.64", analysis.OverallRisk)
	}
}

func TestPolicyClassifyHandlerWithoutModel(t *testing.T) {
	log := logger.NewNop()
	h := NewPolicyHandler(services.NewPolicyAnalyzer(log), nil, log)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/policy/classify", strings.NewReader(`{"policy_text":"x"}`))
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
