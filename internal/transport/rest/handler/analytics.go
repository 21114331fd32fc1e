package handler

import (
	"net/http"

	"dispatchqa/internal/service"
)

// AnalyticsHandler handles dashboard analytics endpoints
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// CallsByType handles GET /v1/analytics/calls-by-type
func (h *AnalyticsHandler) CallsByType(w http.ResponseWriter, r *http.Request) {
	counts, err := h.analyticsSvc.CallsByType(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"callsByType": counts})
}

// Volume handles GET /v1/analytics/volume
func (h *AnalyticsHandler) Volume(w http.ResponseWriter, r *http.Request) {
	points, err := h.analyticsSvc.VolumeByHour(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"volume": points})
}

// Leaderboard handles GET /v1/analytics/leaderboard
func (h *AnalyticsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	stats, err := h.analyticsSvc.DispatcherLeaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": stats})
}

// Dashboard handles GET /v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsSvc.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
