package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

type memCoachingRepo struct {
	repository.CoachingRepo
	created []*model.CoachingTask
}

func (m *memCoachingRepo) Create(_ context.Context, task *model.CoachingTask) error {
	m.created = append(m.created, task)
	return nil
}

func evaluatedCall() *model.Call {
	return &model.Call{
		ID:         "call-1",
		FileName:   "call_2024_001.mp3",
		Dispatcher: "Sarah Johnson",
		CallType:   "Medical",
	}
}

func protocolQuestions() []model.Question {
	return []model.Question{
		{ID: "location", OriginalQuestion: "Was the location of the incident obtained?"},
		{ID: "callerName", OriginalQuestion: "Was the caller's name gathered?"},
		{ID: "responders", OriginalQuestion: "Were responders appropriately notified?"},
	}
}

func TestGenerateFromEvaluationCreatesTask(t *testing.T) {
	repo := &memCoachingRepo{}
	svc := NewCoachingService(repo)

	task, err := svc.GenerateFromEvaluation(context.Background(), evaluatedCall(), protocolQuestions(), map[string]model.AnswerValue{
		"location":   model.AnswerYes,
		"callerName": model.AnswerNo,
		"responders": model.AnswerNo,
	})
	require.NoError(t, err)
	require.NotNil(t, task)
	require.Len(t, repo.created, 1)

	assert.Equal(t, "Sarah Johnson", task.CallTakerName)
	assert.Equal(t, "call-1", task.CallID)
	assert.Equal(t, model.CoachingPending, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Contains(t, task.IssueDescription, "Was the caller's name gathered?")

	// one item per missed question plus the supervisor review
	require.Len(t, task.ActionItems, 3)
	assert.Equal(t, "Review findings with supervisor", task.ActionItems[2].Text)
	done, total := task.Progress()
	assert.Equal(t, 0, done)
	assert.Equal(t, 3, total)
}

func TestGenerateFromEvaluationPriorityScales(t *testing.T) {
	repo := &memCoachingRepo{}
	svc := NewCoachingService(repo)

	task, err := svc.GenerateFromEvaluation(context.Background(), evaluatedCall(), protocolQuestions(), map[string]model.AnswerValue{
		"location":   model.AnswerNo,
		"callerName": model.AnswerNo,
		"responders": model.AnswerNo,
	})
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, model.PriorityHigh, task.Priority)
}

func TestGenerateFromEvaluationNoFindings(t *testing.T) {
	repo := &memCoachingRepo{}
	svc := NewCoachingService(repo)

	// refused/na answers are findings-neutral, only "no" counts
	task, err := svc.GenerateFromEvaluation(context.Background(), evaluatedCall(), protocolQuestions(), map[string]model.AnswerValue{
		"location":   model.AnswerYes,
		"callerName": model.AnswerRefused,
		"responders": model.AnswerNotApplicable,
	})
	require.NoError(t, err)
	assert.Nil(t, task)
	assert.Empty(t, repo.created)
}
