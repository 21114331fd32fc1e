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

// CoachingHandler handles coaching task endpoints
type CoachingHandler struct {
	coachingSvc *service.CoachingService
}

// NewCoachingHandler creates a new coaching handler
func NewCoachingHandler(coachingSvc *service.CoachingService) *CoachingHandler {
	return &CoachingHandler{coachingSvc: coachingSvc}
}

// CreateTaskRequest is the request body for a manually raised coaching task
type CreateTaskRequest struct {
	CallTakerName    string   `json:"callTakerName"`
	CallID           string   `json:"callId"`
	FocusArea        string   `json:"focusArea"`
	Priority         string   `json:"priority"`
	IssueDescription string   `json:"issueDescription"`
	Suggestions      []string `json:"suggestions"`
	ActionItems      []string `json:"actionItems"`
	DueDate          string   `json:"dueDate"`
}

// CompleteTaskRequest is the request body for closing out a task
type CompleteTaskRequest struct {
	Notes string `json:"notes"`
}

// List handles GET /v1/coaching/tasks. Optional status and callTaker query
// params narrow the listing.
func (h *CoachingHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.coachingSvc.ListTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := r.URL.Query().Get("status")
	callTaker := r.URL.Query().Get("callTaker")
	if status != "" || callTaker != "" {
		filtered := make([]*model.CoachingTask, 0, len(tasks))
		for _, t := range tasks {
			if status != "" && string(t.Status) != status {
				continue
			}
			if callTaker != "" && t.CallTakerName != callTaker {
				continue
			}
			filtered = append(filtered, t)
		}
		tasks = filtered
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

// Get handles GET /v1/coaching/tasks/{taskId}
func (h *CoachingHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.coachingSvc.GetTask(r.Context(), mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "coaching task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Create handles POST /v1/coaching/tasks
func (h *CoachingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CallTakerName == "" || req.FocusArea == "" {
		writeError(w, http.StatusBadRequest, "callTakerName and focusArea are required")
		return
	}

	priority := model.CoachingPriority(req.Priority)
	if req.Priority == "" {
		priority = model.PriorityMedium
	}

	dueDate := time.Now().UTC().AddDate(0, 0, 7)
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dueDate must be YYYY-MM-DD")
			return
		}
		dueDate = parsed
	}

	items := make([]model.ActionItem, 0, len(req.ActionItems))
	for _, text := range req.ActionItems {
		items = append(items, model.ActionItem{Text: text, Completed: false})
	}

	task := &model.CoachingTask{
		CallTakerName:       req.CallTakerName,
		CallID:              req.CallID,
		FocusArea:           req.FocusArea,
		Priority:            priority,
		Status:              model.CoachingPending,
		IssueDescription:    req.IssueDescription,
		CoachingSuggestions: req.Suggestions,
		ActionItems:         items,
		DueDate:             dueDate,
		CreatedDate:         time.Now().UTC(),
	}
	if err := h.coachingSvc.CreateTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// ToggleActionItem handles POST /v1/coaching/tasks/{taskId}/action-items/{index}/toggle
func (h *CoachingHandler) ToggleActionItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	index, err := strconv.Atoi(vars["index"])
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid action item index")
		return
	}

	task, err := h.coachingSvc.ToggleActionItem(r.Context(), vars["taskId"], index)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "coaching task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Complete handles POST /v1/coaching/tasks/{taskId}/complete
func (h *CoachingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.coachingSvc.CompleteTask(r.Context(), mux.Vars(r)["taskId"], req.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "coaching task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}
