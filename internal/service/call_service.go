package service

import (
	"context"
	"fmt"
	"log"

	"dispatchqa/internal/cache"
	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

// CallService handles call-record listing and lifecycle
type CallService struct {
	callRepo  repository.CallRepo
	evalRepo  repository.EvaluationRepo
	callCache cache.CallCache
}

func NewCallService(callRepo repository.CallRepo, evalRepo repository.EvaluationRepo, callCache cache.CallCache) *CallService {
	return &CallService{
		callRepo:  callRepo,
		evalRepo:  evalRepo,
		callCache: callCache,
	}
}

// ListCalls returns every call, newest first
func (s *CallService) ListCalls(ctx context.Context) ([]*model.Call, error) {
	calls, err := s.callRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	return calls, nil
}

// RecentCalls serves the dashboard feed, cache-first
func (s *CallService) RecentCalls(ctx context.Context, limit int) ([]*model.Call, error) {
	if cached, err := s.callCache.GetRecent(ctx); err == nil && cached != nil {
		if len(cached) >= limit {
			return cached[:limit], nil
		}
		return cached, nil
	}

	calls, err := s.callRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent calls: %w", err)
	}

	if err := s.callCache.SetRecent(ctx, calls); err != nil {
		log.Printf("Warning: failed to cache recent calls: %v", err)
	}
	return calls, nil
}

// RecentActivity projects recent calls onto their feed rows
func (s *CallService) RecentActivity(ctx context.Context, limit int) ([]model.CallActivity, error) {
	calls, err := s.RecentCalls(ctx, limit)
	if err != nil {
		return nil, err
	}

	activities := make([]model.CallActivity, 0, len(calls))
	for _, c := range calls {
		activities = append(activities, c.Activity())
	}
	return activities, nil
}

// GetCall returns one call, or nil when it does not exist
func (s *CallService) GetCall(ctx context.Context, id string) (*model.Call, error) {
	call, err := s.callRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get call %s: %w", id, err)
	}
	return call, nil
}

// CreateCall registers a newly submitted recording
func (s *CallService) CreateCall(ctx context.Context, call *model.Call) error {
	if call.Status == "" {
		call.Status = model.CallQueued
	}
	if err := s.callRepo.Create(ctx, call); err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}

	if err := s.callCache.Invalidate(ctx); err != nil {
		log.Printf("Warning: failed to invalidate call cache: %v", err)
	}
	return nil
}

// UpdateStatus moves a call through the processing pipeline
func (s *CallService) UpdateStatus(ctx context.Context, id string, status model.CallStatus) error {
	if err := s.callRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update call status: %w", err)
	}

	if err := s.callCache.Invalidate(ctx); err != nil {
		log.Printf("Warning: failed to invalidate call cache: %v", err)
	}
	return nil
}

// SavedAnswers loads the committed answer map recorded for a call.
// Returns an empty map when the call has never been evaluated.
func (s *CallService) SavedAnswers(ctx context.Context, callID string) (map[string]model.AnswerValue, error) {
	eval, err := s.evalRepo.GetByCallID(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved answers for call %s: %w", callID, err)
	}
	if eval == nil {
		return map[string]model.AnswerValue{}, nil
	}
	return eval.Answers, nil
}
