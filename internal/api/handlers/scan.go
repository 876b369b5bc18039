package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"consent-engine/internal/domain/models"
	"consent-engine/internal/domain/services"
	"consent-engine/internal/infrastructure/database/repository"
	"consent-engine/pkg/logger"
)

// ScanHandler handles permission scan API requests
type ScanHandler struct {
	scans  *services.ScanService
	logger *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scans *services.ScanService, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scans:  scans,
		logger: log.WithComponent("scan-handler"),
	}
}

// Analyze handles POST /api/v1/scans/analyze
func (h *ScanHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Permissions) == 0 {
		h.respondError(w, http.StatusBadRequest, "permissions array is required")
		return
	}

	if len(req.Permissions) > 500 {
		h.respondError(w, http.StatusBadRequest, "maximum 500 permissions per scan")
		return
	}

	result, err := h.scans.AnalyzeApp(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Str("app", req.AppName).Msg("failed to analyze app")
		h.respondError(w, http.StatusInternalServerError, "failed to analyze app")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Get handles GET /api/v1/scans/{id}
func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid scan id")
		return
	}

	scan, err := h.scans.GetScan(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "scan not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("scan_id", id.String()).Msg("failed to get scan")
		h.respondError(w, http.StatusInternalServerError, "failed to get scan")
		return
	}

	h.respondJSON(w, http.StatusOK, scan)
}

// List handles GET /api/v1/scans
func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ScanFilter{
		UserID:   r.URL.Query().Get("user_id"),
		ScanType: models.ScanType(r.URL.Query().Get("scan_type")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}

	scans, err := h.scans.ListScans(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list scans")
		h.respondError(w, http.StatusInternalServerError, "failed to list scans")
		return
	}

	if scans == nil {
		scans = []*models.ScanRecord{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"scans": scans,
		"count": len(scans),
	})
}

func (h *ScanHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ScanHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
