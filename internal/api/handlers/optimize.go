package handlers

import (
	"encoding/json"
	"net/http"

	"consent-engine/internal/domain/services"
	"consent-engine/pkg/logger"
)

// OptimizeHandler handles permission optimization API requests
type OptimizeHandler struct {
	optimizer *services.PermissionOptimizer
	analyzer  *services.PolicyAnalyzer
	catalog   *services.PermissionCatalog
	logger    *logger.Logger
}

// NewOptimizeHandler creates a new optimize handler
func NewOptimizeHandler(opt *services.PermissionOptimizer, analyzer *services.PolicyAnalyzer, catalog *services.PermissionCatalog, log *logger.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		optimizer: opt,
		analyzer:  analyzer,
		catalog:   catalog,
		logger:    log.WithComponent("optimize-handler"),
	}
}

// Optimize handles POST /api/v1/permissions/optimize
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Features    []string `json:"features"`
		Permissions []string `json:"permissions"`
		PolicyText  string   `json:"policy_text,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Permissions) == 0 {
		h.respondError(w, http.StatusBadRequest, "permissions array is required")
		return
	}

	var policySummary string
	if req.PolicyText != "" {
		policySummary = h.analyzer.Analyze(req.PolicyText).Summary
	}

	result, err := h.optimizer.Optimize(r.Context(), req.Features, req.Permissions, req.PolicyText, policySummary)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to optimize permissions")
		h.respondError(w, http.StatusInternalServerError, "failed to optimize permissions")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// MinimalSet handles POST /api/v1/permissions/minimal
func (h *OptimizeHandler) MinimalSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Features []string `json:"features"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Features) == 0 {
		h.respondError(w, http.StatusBadRequest, "features array is required")
		return
	}

	minimal := h.optimizer.MinimalSet(req.Features)

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"features":            req.Features,
		"minimal_permissions": minimal,
	})
}

// GetCatalog handles GET /api/v1/permissions/catalog
func (h *OptimizeHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	categories := h.catalog.Categories()

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories":   categories,
		"total_weight": h.catalog.TotalWeight(),
	})
}

func (h *OptimizeHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *OptimizeHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
