package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"consent-engine/internal/domain/models"
	"consent-engine/internal/domain/services"
	"consent-engine/pkg/logger"
)

func newTestScanService() *services.ScanService {
	log := logger.NewNop()
	calc := services.NewRiskCalculator(services.NewPermissionCatalog(), services.NewPermissionNormalizer(), nil, log)
	return services.NewScanService(calc, services.NewURLScorer(log), nil, nil, time.Minute, time.Minute, log)
}

func TestScanAnalyzeHandler(t *testing.T) {
	h := NewScanHandler(newTestScanService(), logger.NewNop())

	body := `{"app_name":"flashlight","permissions":["READ_SMS","RECEIVE_SMS","ACCESS_FINE_LOCATION"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.ScanResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Profile.RiskScore != 2.0 {
		t.Errorf("RiskScore = %v, want 2.0", result.Profile.RiskScore)
	}
	if result.Profile.RiskLevel != models.RiskLevelLow {
		t.Errorf("RiskLevel = %v, want low", result.Profile.RiskLevel)
	}
}

func TestScanAnalyzeHandlerRejectsEmptyPermissions(t *testing.T) {
	h := NewScanHandler(newTestScanService(), logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/analyze", strings.NewReader(`{"app_name":"x"}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestScanAnalyzeHandlerRejectsBadJSON(t *testing.T) {
	h := NewScanHandler(newTestScanService(), logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/analyze", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestURLAssessHandler(t *testing.T) {
	h := NewURLHandler(newTestScanService(), logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/url/assess", strings.NewReader(`{"url":"http://bit.ly/abc"}`))
	rec := httptest.NewRecorder()

	h.Assess(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var a models.URLRiskAssessment
	if err := json.NewDecoder(rec.Body).Decode(&a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.RiskScore != 6.0 {
		t.Errorf("RiskScore = %v, want 6.0", a.RiskScore)
	}
	if a.RiskLevel != models.RiskLevelMedium {
		t.Errorf("RiskLevel = %v, want medium", a.RiskLevel)
	}
}

func TestURLAssessHandlerInvalidURL(t *testing.T) {
	h := NewURLHandler(newTestScanService(), logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/url/assess", strings.NewReader(`{"url":"://missing-scheme"}`))
	rec := httptest.NewRecorder()

	h.Assess(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestURLAssessHandlerMissingURL(t *testing.T) {
	h := NewURLHandler(newTestScanService(), logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/url/assess", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Assess(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestURLAssessBatchHandler(t *testing.T) {
	h := NewURLHandler(newTestScanService(), logger.NewNop())

	body := `{"urls":["http://bit.ly/abc","https://example.com/home","://missing-scheme"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/url/assess/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.AssessBatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Results []models.URLRiskAssessment `json:"results"`
		Failed  []string                   `json:"failed"`
		Count   int                        `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Results) != 2 {
		t.Errorf("count = %d, results = %d, want 2", resp.Count, len(resp.Results))
	}
	if len(resp.Failed) != 1 || resp.Failed[0] != "://missing-scheme" {
		t.Errorf("failed = %v", resp.Failed)
	}
}
