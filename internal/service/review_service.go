package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/google/uuid"

	"dispatchqa/internal/cache"
	"dispatchqa/internal/evaluation"
	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

var (
	// ErrSessionNotFound means the review session id is unknown or expired
	ErrSessionNotFound = errors.New("review session not found")

	// ErrCallNotFound means the requested call record does not exist
	ErrCallNotFound = errors.New("call not found")
)

// reviewSession pairs a controller with the mutex that serializes every
// operation against it. The controller and its store are not goroutine safe;
// the session lock is held across each full operation, including the view
// snapshot, so concurrent requests on one sessionId never interleave.
type reviewSession struct {
	mu   sync.Mutex
	ctrl *evaluation.Controller
}

// ReviewService hosts one evaluation controller per review session. The
// registry lock only guards the sessions map; serialization of the store
// itself is per session, via reviewSession.mu.
type ReviewService struct {
	callSvc     *CallService
	questionSvc *QuestionService
	coachingSvc *CoachingService
	persister   evaluation.Persister

	mu       sync.Mutex
	sessions map[string]*reviewSession
}

func NewReviewService(callSvc *CallService, questionSvc *QuestionService, coachingSvc *CoachingService, persister evaluation.Persister) *ReviewService {
	return &ReviewService{
		callSvc:     callSvc,
		questionSvc: questionSvc,
		coachingSvc: coachingSvc,
		persister:   persister,
		sessions:    make(map[string]*reviewSession),
	}
}

// QuestionView is one checklist row as rendered by the review surface
type QuestionView struct {
	ID          string            `json:"id"`
	Question    string            `json:"question"`
	Description string            `json:"description,omitempty"`
	Confidence  int               `json:"confidence,omitempty"`
	Evidence    string            `json:"evidence,omitempty"`
	Answer      model.AnswerValue `json:"answer"`
}

// SessionView is the full snapshot returned after every session operation
type SessionView struct {
	SessionID string                  `json:"sessionId"`
	CallID    string                  `json:"callId"`
	Editing   bool                    `json:"editing"`
	Questions []QuestionView          `json:"questions"`
	Summary   model.ComplianceSummary `json:"summary"`
}

// StartSession creates a session bound to a call
func (s *ReviewService) StartSession(ctx context.Context, callID string) (*SessionView, error) {
	sess := &reviewSession{ctrl: evaluation.NewController(s.persister)}
	if err := s.bind(ctx, sess.ctrl, callID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return s.view(id, sess.ctrl), nil
}

// SelectCall rebinds an existing session to a different call. Unsaved edits
// on the previous call are discarded without confirmation.
func (s *ReviewService) SelectCall(ctx context.Context, sessionID, callID string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.bind(ctx, sess.ctrl, callID); err != nil {
		return nil, err
	}
	return s.view(sessionID, sess.ctrl), nil
}

// bind fetches call data and applies it under the session's bind token, so
// a fetch superseded by a newer selection is dropped instead of applied.
func (s *ReviewService) bind(ctx context.Context, ctrl *evaluation.Controller, callID string) error {
	token := ctrl.SelectCall()

	call, err := s.callSvc.GetCall(ctx, callID)
	if err != nil {
		return err
	}
	if call == nil {
		return fmt.Errorf("%w: %s", ErrCallNotFound, callID)
	}

	catalog, err := s.questionSvc.Catalog(ctx)
	if err != nil {
		return err
	}

	saved, err := s.callSvc.SavedAnswers(ctx, callID)
	if err != nil {
		return err
	}

	if err := ctrl.ApplyBind(token, call, catalog, saved); err != nil {
		// a concurrent rebind won; nothing to roll back
		return err
	}
	return nil
}

// GetSession returns the current snapshot
func (s *ReviewService) GetSession(sessionID string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sessionID, sess.ctrl), nil
}

// BeginEdit opens the session's edit mode
func (s *ReviewService) BeginEdit(sessionID string) (*SessionView, error) {
	return s.storeOp(sessionID, func(st *evaluation.AnswerStore) error {
		return st.BeginEdit()
	})
}

// SetDraftAnswer records a draft verdict for one question
func (s *ReviewService) SetDraftAnswer(sessionID, questionID string, value model.AnswerValue) (*SessionView, error) {
	return s.storeOp(sessionID, func(st *evaluation.AnswerStore) error {
		return st.SetDraftAnswer(questionID, value)
	})
}

// Reset discards uncommitted edits, staying in edit mode
func (s *ReviewService) Reset(sessionID string) (*SessionView, error) {
	return s.storeOp(sessionID, func(st *evaluation.AnswerStore) error {
		return st.Reset()
	})
}

// EndEdit closes edit mode without saving
func (s *ReviewService) EndEdit(sessionID string) (*SessionView, error) {
	return s.storeOp(sessionID, func(st *evaluation.AnswerStore) error {
		return st.EndEdit()
	})
}

// Save commits the draft and round-trips it to persistence. On a persist
// failure the commit stands locally (optimistic) and the error is surfaced
// alongside the post-commit view so the caller can retry.
func (s *ReviewService) Save(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	saveErr := sess.ctrl.Save(ctx)
	if saveErr != nil && !errors.Is(saveErr, evaluation.ErrSaveFailed) {
		return nil, saveErr
	}
	return s.view(sessionID, sess.ctrl), saveErr
}

// EndSession discards the session and its store
func (s *ReviewService) EndSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// GenerateCoaching creates a coaching task from the session's committed
// answers. Returns nil when no question was answered "no".
func (s *ReviewService) GenerateCoaching(ctx context.Context, sessionID string) (*model.CoachingTask, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	call := sess.ctrl.Call()
	if call == nil {
		return nil, evaluation.ErrNotBound
	}
	return s.coachingSvc.GenerateFromEvaluation(ctx, call, sess.ctrl.Store().Questions(), sess.ctrl.Store().Committed())
}

func (s *ReviewService) session(sessionID string) (*reviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

func (s *ReviewService) storeOp(sessionID string, op func(*evaluation.AnswerStore) error) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := op(sess.ctrl.Store()); err != nil {
		return nil, err
	}
	return s.view(sessionID, sess.ctrl), nil
}

func (s *ReviewService) view(sessionID string, ctrl *evaluation.Controller) *SessionView {
	st := ctrl.Store()
	questions := st.Questions()

	rows := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		answer, err := st.Answer(q.ID)
		if err != nil {
			// bound questions always have an answer; keep the row anyway
			log.Printf("Warning: missing answer for question %s: %v", q.ID, err)
		}
		rows = append(rows, QuestionView{
			ID:          q.ID,
			Question:    q.Prompt(),
			Description: q.QuestionDescription,
			Confidence:  q.Confidence,
			Evidence:    q.Evidence,
			Answer:      answer,
		})
	}

	return &SessionView{
		SessionID: sessionID,
		CallID:    st.CallID(),
		Editing:   st.State() == evaluation.StateEditing,
		Questions: rows,
		Summary:   ctrl.ComplianceSummary(),
	}
}

// AnswerPersister is the production evaluation.Persister: it upserts the
// committed map, refreshes the compliance cache, and stamps the call's
// grade score so the leaderboard reflects the new evaluation.
type AnswerPersister struct {
	evalRepo   repository.EvaluationRepo
	callRepo   repository.CallRepo
	compliance cache.ComplianceCache
}

func NewAnswerPersister(evalRepo repository.EvaluationRepo, callRepo repository.CallRepo, compliance cache.ComplianceCache) *AnswerPersister {
	return &AnswerPersister{
		evalRepo:   evalRepo,
		callRepo:   callRepo,
		compliance: compliance,
	}
}

func (p *AnswerPersister) SaveAnswers(ctx context.Context, callID string, answers map[string]model.AnswerValue) error {
	eval := &model.Evaluation{CallID: callID, Answers: answers}
	if err := p.evalRepo.Upsert(ctx, eval); err != nil {
		return fmt.Errorf("failed to persist answers for call %s: %w", callID, err)
	}

	summary := model.ComplianceSummary{Total: len(answers)}
	for _, v := range answers {
		if v == model.AnswerYes {
			summary.Met++
		}
	}
	if err := p.compliance.Set(ctx, callID, summary); err != nil {
		log.Printf("Warning: failed to cache compliance for call %s: %v", callID, err)
	}

	if summary.Total > 0 {
		grade := int(math.Round(100 * float64(summary.Met) / float64(summary.Total)))
		call, err := p.callRepo.GetByID(ctx, callID)
		if err == nil && call != nil {
			call.GradeScore = &grade
			if err := p.callRepo.Update(ctx, call); err != nil {
				log.Printf("Warning: failed to stamp grade on call %s: %v", callID, err)
			}
		}
	}
	return nil
}
