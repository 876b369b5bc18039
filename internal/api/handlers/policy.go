package handlers

import (
	"encoding/json"
	"net/http"

	"consent-engine/internal/domain/services"
	"consent-engine/pkg/logger"
)

// PolicyHandler handles privacy policy analysis API requests
type PolicyHandler struct {
	analyzer *services.PolicyAnalyzer
	model    *services.PolicyRiskModel
	logger   *logger.Logger
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(analyzer *services.PolicyAnalyzer, model *services.PolicyRiskModel, log *logger.Logger) *PolicyHandler {
	return &PolicyHandler{
		analyzer: analyzer,
		model:    model,
		logger:   log.WithComponent("policy-handler"),
	}
}

// Analyze handles POST /api/v1/policy/analyze
func (h *PolicyHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PolicyText string `json:"policy_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PolicyText == "" {
		h.respondError(w, http.StatusBadRequest, "policy_text is required")
		return
	}

	analysis := h.analyzer.Analyze(req.PolicyText)

	h.respondJSON(w, http.StatusOK, analysis)
}

// Classify handles POST /api/v1/policy/classify
func (h *PolicyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	if h.model == nil {
		h.respondError(w, http.StatusServiceUnavailable, "policy classifier not configured")
		return
	}

	var req struct {
		PolicyText string `json:"policy_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PolicyText == "" {
		h.respondError(w, http.StatusBadRequest, "policy_text is required")
		return
	}

	prob, err := h.model.Score(req.PolicyText)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to classify policy")
		h.respondError(w, http.StatusInternalServerError, "failed to classify policy")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"risk_probability": prob,
		"risk_score":       prob * 10,
	})
}

// ModelInfo handles GET /api/v1/policy/model
func (h *PolicyHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	if h.model == nil {
		h.respondError(w, http.StatusServiceUnavailable, "policy classifier not configured")
		return
	}

	h.respondJSON(w, http.StatusOK, h.model.Info())
}

func (h *PolicyHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *PolicyHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
