package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"dispatchqa/internal/service"
)

// TranscriptionHandler handles audio transcription endpoints
type TranscriptionHandler struct {
	transcriptionSvc *service.TranscriptionService
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(transcriptionSvc *service.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{transcriptionSvc: transcriptionSvc}
}

// TranscribeRequest is the request body for transcription endpoints
type TranscribeRequest struct {
	DownloadURI string `json:"downloadUri"`
}

// Transcribe handles POST /v1/transcribe: one-shot transcription of an
// audio URI not tied to a stored call.
func (h *TranscriptionHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DownloadURI == "" {
		writeError(w, http.StatusBadRequest, "downloadUri is required")
		return
	}

	result, err := h.transcriptionSvc.Transcribe(r.Context(), req.DownloadURI)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// TranscribeCall handles POST /v1/calls/{callId}/transcribe: runs the
// pipeline and stores the transcript on the call record.
func (h *TranscriptionHandler) TranscribeCall(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["callId"]

	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DownloadURI == "" {
		writeError(w, http.StatusBadRequest, "downloadUri is required")
		return
	}

	result, err := h.transcriptionSvc.TranscribeCall(r.Context(), callID, req.DownloadURI)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
