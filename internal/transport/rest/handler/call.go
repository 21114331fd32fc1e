package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"dispatchqa/internal/model"
	"dispatchqa/internal/service"
)

// CallHandler handles call record endpoints
type CallHandler struct {
	callSvc *service.CallService
}

// NewCallHandler creates a new call handler
func NewCallHandler(callSvc *service.CallService) *CallHandler {
	return &CallHandler{callSvc: callSvc}
}

// CreateCallRequest is the request body for registering a call
type CreateCallRequest struct {
	FileName   string `json:"fileName"`
	Dispatcher string `json:"dispatcher"`
	Language   string `json:"language"`
	Model      string `json:"model"`
	CallType   string `json:"callType"`
	Duration   string `json:"duration"`
}

// List handles GET /v1/calls
func (h *CallHandler) List(w http.ResponseWriter, r *http.Request) {
	calls, err := h.callSvc.ListCalls(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"calls": calls})
}

// Recent handles GET /v1/calls/recent
func (h *CallHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	calls, err := h.callSvc.RecentCalls(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"calls": calls})
}

// Activity handles GET /v1/activity/recent
func (h *CallHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	activity, err := h.callSvc.RecentActivity(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activity": activity})
}

// Get handles GET /v1/calls/{callId}
func (h *CallHandler) Get(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["callId"]

	call, err := h.callSvc.GetCall(r.Context(), callID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if call == nil {
		writeError(w, http.StatusNotFound, "call not found")
		return
	}
	writeJSON(w, http.StatusOK, call)
}

// Create handles POST /v1/calls
func (h *CallHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}

	call := &model.Call{
		FileName:   req.FileName,
		Dispatcher: req.Dispatcher,
		Language:   req.Language,
		Model:      req.Model,
		CallType:   req.CallType,
		Duration:   req.Duration,
		Submitted:  time.Now().UTC(),
		Status:     model.CallQueued,
	}
	if err := h.callSvc.CreateCall(r.Context(), call); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, call)
}

// UpdateStatus handles PATCH /v1/calls/{callId}/status
func (h *CallHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["callId"]

	var req struct {
		Status model.CallStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.callSvc.UpdateStatus(r.Context(), callID, req.Status); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
