package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"dispatchqa/internal/service"
)

// QuestionHandler handles QA question catalog endpoints
type QuestionHandler struct {
	questionSvc *service.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionSvc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// UpdateQuestionRequest is the request body for editing a question.
// Only the edited wording changes; the original wording is immutable.
type UpdateQuestionRequest struct {
	EditedQuestion      string   `json:"editedQuestion"`
	QuestionDescription string   `json:"questionDescription"`
	CallTypes           []string `json:"type"`
}

// List handles GET /v1/questions. An optional callType query filters the
// catalog down to questions applicable to that call type.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	callType := r.URL.Query().Get("callType")

	var err error
	var questions interface{}
	if callType != "" {
		questions, err = h.questionSvc.CatalogFor(r.Context(), callType)
	} else {
		questions, err = h.questionSvc.Catalog(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// Create handles POST /v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.questionSvc.AddQuestion(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionCreateFailed) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

// Update handles PUT /v1/questions/{questionId}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	var req UpdateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.questionSvc.UpdateQuestion(r.Context(), questionID, req.EditedQuestion, req.QuestionDescription, req.CallTypes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if question == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	writeJSON(w, http.StatusOK, question)
}
