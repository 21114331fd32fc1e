package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

var (
	// ErrCatalogUnavailable means the question catalog could not be fetched
	// and no previously fetched copy exists to fall back to
	ErrCatalogUnavailable = errors.New("question catalog unavailable")

	// ErrQuestionCreateFailed means a new question could not be persisted;
	// no local state changes on this failure
	ErrQuestionCreateFailed = errors.New("question create failed")
)

// QuestionService serves the QA question catalog. A fetch failure falls back
// to the last successfully fetched catalog rather than surfacing an error to
// the review screen.
type QuestionService struct {
	questionRepo repository.QuestionRepo

	mu       sync.RWMutex
	lastGood []model.Question
}

func NewQuestionService(questionRepo repository.QuestionRepo) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// Catalog returns the ordered question catalog. On a backend failure the
// last good snapshot is served; ErrCatalogUnavailable only when there is
// nothing cached either.
func (s *QuestionService) Catalog(ctx context.Context) ([]model.Question, error) {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		s.mu.RLock()
		cached := copyCatalog(s.lastGood)
		s.mu.RUnlock()

		if cached != nil {
			log.Printf("Warning: catalog fetch failed, serving cached copy: %v", err)
			return cached, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	catalog := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		catalog = append(catalog, *q)
	}

	// keep a private snapshot; callers get their own slice either way
	s.mu.Lock()
	s.lastGood = copyCatalog(catalog)
	s.mu.Unlock()

	return catalog, nil
}

func copyCatalog(src []model.Question) []model.Question {
	if src == nil {
		return nil
	}
	dst := make([]model.Question, len(src))
	copy(dst, src)
	return dst
}

// CatalogFor filters the catalog to the questions applicable to callType
func (s *QuestionService) CatalogFor(ctx context.Context, callType string) ([]model.Question, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	applicable := make([]model.Question, 0, len(catalog))
	for _, q := range catalog {
		if q.AppliesTo(callType) {
			applicable = append(applicable, q)
		}
	}
	return applicable, nil
}

// AddQuestionRequest carries the wire shape of a new question submission
type AddQuestionRequest struct {
	OriginalQuestion    string   `json:"originalQuestion"`
	EditedQuestion      string   `json:"editedQuestion"`
	QuestionDescription string   `json:"questionDescription"`
	CallTypes           []string `json:"type"`
}

// AddQuestion persists a new catalog question and returns the stored record
// with its assigned id. The new question becomes visible on the next catalog
// fetch; a failure leaves all local state unchanged.
func (s *QuestionService) AddQuestion(ctx context.Context, req AddQuestionRequest) (*model.Question, error) {
	if strings.TrimSpace(req.OriginalQuestion) == "" {
		return nil, fmt.Errorf("%w: question text is required", ErrQuestionCreateFailed)
	}
	if len(req.CallTypes) == 0 {
		req.CallTypes = []string{model.CallTypeAll}
	}

	question := &model.Question{
		OriginalQuestion:    req.OriginalQuestion,
		EditedQuestion:      req.EditedQuestion,
		QuestionDescription: req.QuestionDescription,
		CallTypes:           req.CallTypes,
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuestionCreateFailed, err)
	}
	return question, nil
}

// UpdateQuestion rewrites the editable parts of a question. The original
// wording is immutable once stored.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id, editedText, description string, callTypes []string) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load question %s: %w", id, err)
	}
	if question == nil {
		return nil, nil
	}

	if editedText != "" {
		question.EditedQuestion = editedText
	}
	if description != "" {
		question.QuestionDescription = description
	}
	if len(callTypes) > 0 {
		question.CallTypes = callTypes
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question %s: %w", id, err)
	}
	return question, nil
}
