package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"consent-engine/internal/domain/models"
	"consent-engine/internal/domain/services"
	"consent-engine/pkg/logger"
)

// URLHandler handles URL risk assessment API requests
type URLHandler struct {
	scans  *services.ScanService
	logger *logger.Logger
}

// NewURLHandler creates a new URL handler
func NewURLHandler(scans *services.ScanService, log *logger.Logger) *URLHandler {
	return &URLHandler{
		scans:  scans,
		logger: log.WithComponent("url-handler"),
	}
}

// Assess handles POST /api/v1/url/assess
func (h *URLHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	assessment, err := h.scans.AssessURL(r.Context(), req.URL)
	if errors.Is(err, models.ErrInvalidURL) {
		h.respondError(w, http.StatusBadRequest, "invalid url")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("failed to assess url")
		h.respondError(w, http.StatusInternalServerError, "failed to assess url")
		return
	}

	h.respondJSON(w, http.StatusOK, assessment)
}

// AssessBatch handles POST /api/v1/url/assess/batch
func (h *URLHandler) AssessBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.URLs) == 0 {
		h.respondError(w, http.StatusBadRequest, "urls array is required")
		return
	}

	if len(req.URLs) > 100 {
		h.respondError(w, http.StatusBadRequest, "maximum 100 urls per batch")
		return
	}

	results := make([]*models.URLRiskAssessment, 0, len(req.URLs))
	failed := make([]string, 0)
	for _, rawURL := range req.URLs {
		assessment, err := h.scans.AssessURL(r.Context(), rawURL)
		if err != nil {
			failed = append(failed, rawURL)
			continue
		}
		results = append(results, assessment)
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"failed":  failed,
		"count":   len(results),
	})
}

func (h *URLHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *URLHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
