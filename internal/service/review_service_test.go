package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatchqa/internal/cache"
	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

type stubCallRepo struct {
	repository.CallRepo
	mu    sync.Mutex
	calls map[string]*model.Call
}

func (s *stubCallRepo) GetByID(_ context.Context, id string) (*model.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[id], nil
}

func (s *stubCallRepo) Update(_ context.Context, call *model.Call) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[call.ID] = call
	return nil
}

type stubQuestionRepo struct {
	repository.QuestionRepo
	catalog []*model.Question
}

func (s *stubQuestionRepo) GetAll(_ context.Context) ([]*model.Question, error) {
	return s.catalog, nil
}

type stubEvalRepo struct {
	repository.EvaluationRepo
	mu    sync.Mutex
	evals map[string]*model.Evaluation
}

func (s *stubEvalRepo) GetByCallID(_ context.Context, callID string) (*model.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evals[callID], nil
}

func (s *stubEvalRepo) Upsert(_ context.Context, eval *model.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evals[eval.CallID] = eval
	return nil
}

type stubCallCache struct {
	cache.CallCache
}

func (s *stubCallCache) GetRecent(_ context.Context) ([]*model.Call, error) { return nil, nil }
func (s *stubCallCache) SetRecent(_ context.Context, _ []*model.Call) error { return nil }
func (s *stubCallCache) Invalidate(_ context.Context) error                 { return nil }

type stubComplianceCache struct {
	cache.ComplianceCache
	mu        sync.Mutex
	summaries map[string]model.ComplianceSummary
}

func (s *stubComplianceCache) Set(_ context.Context, callID string, summary model.ComplianceSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[callID] = summary
	return nil
}

func newReviewService() *ReviewService {
	callRepo := &stubCallRepo{calls: map[string]*model.Call{
		"call-1": {ID: "call-1", FileName: "call_2024_001.mp3", Dispatcher: "Sarah Johnson", CallType: "Medical", Status: model.CallProcessed},
	}}
	questionRepo := &stubQuestionRepo{catalog: []*model.Question{
		{ID: "q1", OriginalQuestion: "Was the location of the incident obtained?", CallTypes: []string{model.CallTypeAll}},
		{ID: "q2", OriginalQuestion: "Was the phone number verified?", CallTypes: []string{model.CallTypeAll}},
	}}
	evalRepo := &stubEvalRepo{evals: map[string]*model.Evaluation{}}
	compliance := &stubComplianceCache{summaries: map[string]model.ComplianceSummary{}}

	callSvc := NewCallService(callRepo, evalRepo, &stubCallCache{})
	questionSvc := NewQuestionService(questionRepo)
	persister := NewAnswerPersister(evalRepo, callRepo, compliance)
	return NewReviewService(callSvc, questionSvc, nil, persister)
}

// Concurrent requests on one sessionId must serialize against its store.
// Run with -race: unsynchronized access to the draft map fails this test.
func TestConcurrentSessionOperations(t *testing.T) {
	ctx := context.Background()
	svc := newReviewService()

	view, err := svc.StartSession(ctx, "call-1")
	require.NoError(t, err)
	id := view.SessionID

	_, err = svc.BeginEdit(id)
	require.NoError(t, err)

	var wg sync.WaitGroup
	values := []model.AnswerValue{model.AnswerYes, model.AnswerNo, model.AnswerRefused}
	for i := 0; i < 20; i++ {
		wg.Add(2)
		value := values[i%len(values)]
		go func() {
			defer wg.Done()
			_, err := svc.SetDraftAnswer(id, "q1", value)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			snapshot, err := svc.GetSession(id)
			assert.NoError(t, err)
			assert.Len(t, snapshot.Questions, 2)
		}()
	}
	wg.Wait()

	// the store survives and the last write is one of the written values
	final, err := svc.GetSession(id)
	require.NoError(t, err)
	assert.Contains(t, values, final.Questions[0].Answer)
}

// Save racing against reads must also hold the session serialized, since
// Save swaps the committed map the snapshot iterates.
func TestConcurrentSaveAndRead(t *testing.T) {
	ctx := context.Background()
	svc := newReviewService()

	view, err := svc.StartSession(ctx, "call-1")
	require.NoError(t, err)
	id := view.SessionID

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := svc.BeginEdit(id); err == nil {
				_, _ = svc.SetDraftAnswer(id, "q2", model.AnswerYes)
				_, _ = svc.Save(ctx, id)
			}
		}()
		go func() {
			defer wg.Done()
			snapshot, err := svc.GetSession(id)
			assert.NoError(t, err)
			assert.Equal(t, "call-1", snapshot.CallID)
		}()
	}
	wg.Wait()
}
