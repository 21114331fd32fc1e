package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

// CoachingService manages coaching tasks and generates them from completed
// call evaluations.
type CoachingService struct {
	coachingRepo repository.CoachingRepo
}

func NewCoachingService(coachingRepo repository.CoachingRepo) *CoachingService {
	return &CoachingService{coachingRepo: coachingRepo}
}

func (s *CoachingService) ListTasks(ctx context.Context) ([]*model.CoachingTask, error) {
	tasks, err := s.coachingRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaching tasks: %w", err)
	}
	return tasks, nil
}

func (s *CoachingService) GetTask(ctx context.Context, id string) (*model.CoachingTask, error) {
	task, err := s.coachingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coaching task %s: %w", id, err)
	}
	return task, nil
}

func (s *CoachingService) CreateTask(ctx context.Context, task *model.CoachingTask) error {
	if err := s.coachingRepo.Create(ctx, task); err != nil {
		return fmt.Errorf("failed to create coaching task: %w", err)
	}
	return nil
}

// ToggleActionItem flips one checkbox on a task and returns the updated task
func (s *CoachingService) ToggleActionItem(ctx context.Context, taskID string, index int) (*model.CoachingTask, error) {
	task, err := s.coachingRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coaching task %s: %w", taskID, err)
	}
	if task == nil {
		return nil, nil
	}
	if index < 0 || index >= len(task.ActionItems) {
		return nil, fmt.Errorf("action item index %d out of range", index)
	}

	task.ActionItems[index].Completed = !task.ActionItems[index].Completed
	if task.Status == model.CoachingPending {
		task.Status = model.CoachingInProgress
	}

	if err := s.coachingRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update coaching task %s: %w", taskID, err)
	}
	return task, nil
}

// CompleteTask closes a task with the supervisor's notes
func (s *CoachingService) CompleteTask(ctx context.Context, taskID, notes string) (*model.CoachingTask, error) {
	task, err := s.coachingRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coaching task %s: %w", taskID, err)
	}
	if task == nil {
		return nil, nil
	}

	now := time.Now()
	task.Status = model.CoachingCompleted
	task.CompletedDate = &now
	task.CompletionNotes = notes

	if err := s.coachingRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to complete coaching task %s: %w", taskID, err)
	}
	return task, nil
}

// GenerateFromEvaluation builds a coaching task out of the questions a call
// failed on. Returns nil without creating anything when every answer passed.
func (s *CoachingService) GenerateFromEvaluation(ctx context.Context, call *model.Call, questions []model.Question, answers map[string]model.AnswerValue) (*model.CoachingTask, error) {
	var missed []model.Question
	for _, q := range questions {
		if answers[q.ID] == model.AnswerNo {
			missed = append(missed, q)
		}
	}
	if len(missed) == 0 {
		return nil, nil
	}

	priority := model.PriorityLow
	switch {
	case len(missed) >= 3:
		priority = model.PriorityHigh
	case len(missed) == 2:
		priority = model.PriorityMedium
	}

	prompts := make([]string, 0, len(missed))
	suggestions := make([]string, 0, len(missed))
	items := make([]model.ActionItem, 0, len(missed)+1)
	for _, q := range missed {
		prompts = append(prompts, q.Prompt())
		suggestions = append(suggestions, "Review protocol expectations for: "+q.Prompt())
		items = append(items, model.ActionItem{Text: "Revisit call segment relevant to: " + q.Prompt()})
	}
	items = append(items, model.ActionItem{Text: "Review findings with supervisor"})

	task := &model.CoachingTask{
		CallTakerID:   call.Dispatcher,
		CallTakerName: call.Dispatcher,
		CallID:        call.ID,
		FocusArea:     "Protocol Compliance",
		DueDate:       time.Now().AddDate(0, 0, 7),
		Status:        model.CoachingPending,
		Priority:      priority,
		IssueDescription: fmt.Sprintf(
			"Evaluation of %s found %d protocol item(s) not met: %s.",
			call.FileName, len(missed), strings.Join(prompts, "; "),
		),
		CoachingSuggestions: suggestions,
		ActionItems:         items,
	}

	if err := s.coachingRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create coaching task for call %s: %w", call.ID, err)
	}
	return task, nil
}
