package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"dispatchqa/internal/cache"
	"dispatchqa/internal/evaluation"
	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
	"dispatchqa/internal/service"
)

// ReviewHandler handles QA review sessions and stored evaluations
type ReviewHandler struct {
	reviewSvc  *service.ReviewService
	evalRepo   repository.EvaluationRepo
	compliance cache.ComplianceCache
	persister  evaluation.Persister
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewSvc *service.ReviewService, evalRepo repository.EvaluationRepo, compliance cache.ComplianceCache, persister evaluation.Persister) *ReviewHandler {
	return &ReviewHandler{
		reviewSvc:  reviewSvc,
		evalRepo:   evalRepo,
		compliance: compliance,
		persister:  persister,
	}
}

// StartSessionRequest is the request body for opening a review session
type StartSessionRequest struct {
	CallID string `json:"callId"`
}

// SetAnswerRequest is the request body for recording a draft verdict
type SetAnswerRequest struct {
	Value model.AnswerValue `json:"value"`
}

// StartSession handles POST /v1/review/sessions
func (h *ReviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CallID == "" {
		writeError(w, http.StatusBadRequest, "callId is required")
		return
	}

	view, err := h.reviewSvc.StartSession(r.Context(), req.CallID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /v1/review/sessions/{sessionId}
func (h *ReviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.reviewSvc.GetSession(mux.Vars(r)["sessionId"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SelectCall handles POST /v1/review/sessions/{sessionId}/call.
// Switching calls discards any unsaved edits without confirmation.
func (h *ReviewHandler) SelectCall(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CallID == "" {
		writeError(w, http.StatusBadRequest, "callId is required")
		return
	}

	view, err := h.reviewSvc.SelectCall(r.Context(), mux.Vars(r)["sessionId"], req.CallID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// BeginEdit handles POST /v1/review/sessions/{sessionId}/edit
func (h *ReviewHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	view, err := h.reviewSvc.BeginEdit(mux.Vars(r)["sessionId"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetAnswer handles PUT /v1/review/sessions/{sessionId}/answers/{questionId}
func (h *ReviewHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req SetAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.reviewSvc.SetDraftAnswer(vars["sessionId"], vars["questionId"], req.Value)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Save handles POST /v1/review/sessions/{sessionId}/save. When persistence
// fails the commit still stands in the session; the response carries the
// post-commit view with a 502 so the client can offer a retry.
func (h *ReviewHandler) Save(w http.ResponseWriter, r *http.Request) {
	view, err := h.reviewSvc.Save(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		if errors.Is(err, evaluation.ErrSaveFailed) && view != nil {
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":   err.Error(),
				"session": view,
			})
			return
		}
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Reset handles POST /v1/review/sessions/{sessionId}/reset
func (h *ReviewHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.reviewSvc.Reset(mux.Vars(r)["sessionId"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// EndEdit handles POST /v1/review/sessions/{sessionId}/done
func (h *ReviewHandler) EndEdit(w http.ResponseWriter, r *http.Request) {
	view, err := h.reviewSvc.EndEdit(mux.Vars(r)["sessionId"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// EndSession handles DELETE /v1/review/sessions/{sessionId}
func (h *ReviewHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.reviewSvc.EndSession(mux.Vars(r)["sessionId"])
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

// GenerateCoaching handles POST /v1/review/sessions/{sessionId}/coaching
func (h *ReviewHandler) GenerateCoaching(w http.ResponseWriter, r *http.Request) {
	task, err := h.reviewSvc.GenerateCoaching(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if task == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "no findings"})
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// PutAnswers handles PUT /v1/calls/{callId}/qa-answers: direct persistence
// of a full answer map, bypassing any session. Used by batch tooling.
func (h *ReviewHandler) PutAnswers(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["callId"]

	var answers map[string]model.AnswerValue
	if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for questionID, v := range answers {
		if !v.Valid() {
			writeError(w, http.StatusBadRequest, "invalid answer value for question "+questionID)
			return
		}
	}

	if err := h.persister.SaveAnswers(r.Context(), callID, answers); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// GetAnswers handles GET /v1/calls/{callId}/qa-answers
func (h *ReviewHandler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["callId"]

	eval, err := h.evalRepo.GetByCallID(r.Context(), callID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if eval == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"callId": callID, "answers": map[string]model.AnswerValue{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"callId": callID, "answers": eval.Answers})
}

// GetSummary handles GET /v1/calls/{callId}/qa-summary. Cache first, with a
// rebuild from the stored evaluation on a miss.
func (h *ReviewHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["callId"]
	ctx := r.Context()

	if cached, err := h.compliance.Get(ctx, callID); err == nil && cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	eval, err := h.evalRepo.GetByCallID(ctx, callID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := model.ComplianceSummary{}
	if eval != nil {
		summary.Total = len(eval.Answers)
		for _, v := range eval.Answers {
			if v == model.AnswerYes {
				summary.Met++
			}
		}
		_ = h.compliance.Set(ctx, callID, summary)
	}
	writeJSON(w, http.StatusOK, summary)
}

// writeSessionError maps review/evaluation sentinels onto HTTP statuses
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrCallNotFound),
		errors.Is(err, evaluation.ErrUnknownQuestion):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, evaluation.ErrInvalidAnswerValue):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, evaluation.ErrNotEditing),
		errors.Is(err, evaluation.ErrAlreadyEditing),
		errors.Is(err, evaluation.ErrNotBound),
		errors.Is(err, evaluation.ErrStaleBind):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
