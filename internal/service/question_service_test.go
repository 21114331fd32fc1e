package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

type flakyQuestionRepo struct {
	repository.QuestionRepo
	catalog []*model.Question
	fail    bool
}

func (f *flakyQuestionRepo) GetAll(_ context.Context) ([]*model.Question, error) {
	if f.fail {
		return nil, errors.New("connection reset")
	}
	return f.catalog, nil
}

func TestCatalogFallsBackToLastGood(t *testing.T) {
	repo := &flakyQuestionRepo{catalog: []*model.Question{
		{ID: "q1", OriginalQuestion: "Was the location of the incident obtained?", CallTypes: []string{model.CallTypeAll}},
	}}
	svc := NewQuestionService(repo)

	first, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	repo.fail = true
	fallback, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, fallback)
}

func TestCatalogUnavailableWithoutSnapshot(t *testing.T) {
	svc := NewQuestionService(&flakyQuestionRepo{fail: true})

	_, err := svc.Catalog(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

// Returned slices are the caller's own; mutating one must not bleed into the
// snapshot served to later callers.
func TestCatalogCallersGetIndependentCopies(t *testing.T) {
	repo := &flakyQuestionRepo{catalog: []*model.Question{
		{ID: "q1", OriginalQuestion: "Was the location of the incident obtained?", CallTypes: []string{model.CallTypeAll}},
		{ID: "q2", OriginalQuestion: "Was the phone number verified?", CallTypes: []string{model.CallTypeAll}},
	}}
	svc := NewQuestionService(repo)

	first, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	first[0].OriginalQuestion = "mangled by caller"

	repo.fail = true
	fallback, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Was the location of the incident obtained?", fallback[0].OriginalQuestion)

	fallback[1].OriginalQuestion = "mangled again"
	again, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Was the phone number verified?", again[1].OriginalQuestion)
}
