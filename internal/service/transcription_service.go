package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

// TranscriptLine is the speaker/text pair shape the review UI renders
type TranscriptLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// TranscriptResult is the outcome of one transcription run
type TranscriptResult struct {
	InteractionID   string           `json:"interaction_id"`
	TranscriptLines []string         `json:"transcript_lines"`
	Transcript      []TranscriptLine `json:"transcript"`
}

// TranscriptionService drives the declare/poll/fetch transcription flow
// against ElevateAI and records results on the call.
type TranscriptionService struct {
	client   *ElevateAIClient
	callRepo repository.CallRepo

	pollInterval time.Duration
	maxPolls     int
}

func NewTranscriptionService(client *ElevateAIClient, callRepo repository.CallRepo) *TranscriptionService {
	return &TranscriptionService{
		client:       client,
		callRepo:     callRepo,
		pollInterval: 5 * time.Second,
		maxPolls:     30,
	}
}

// Transcribe declares the audio, polls until processed, and returns clean
// sentence lines. Context cancellation aborts the poll loop.
func (s *TranscriptionService) Transcribe(ctx context.Context, downloadURI string) (*TranscriptResult, error) {
	if !s.client.IsConfigured() {
		return nil, fmt.Errorf("transcription service not configured")
	}

	interactionID, err := s.client.Declare(ctx, downloadURI)
	if err != nil {
		return nil, fmt.Errorf("declare failed: %w", err)
	}

	var raw map[string]interface{}
	for i := 0; i < s.maxPolls; i++ {
		status, err := s.client.Status(ctx, interactionID)
		if err != nil {
			return nil, fmt.Errorf("status check failed: %w", err)
		}
		log.Printf("[Transcription] poll %d: interaction %s status=%s", i, interactionID, status)

		if status == "processed" {
			raw, err = s.client.Transcript(ctx, interactionID)
			if err != nil {
				return nil, fmt.Errorf("transcript fetch failed: %w", err)
			}
			break
		}
		if status == "processingfailed" || status == "error" || status == "failed" {
			return nil, fmt.Errorf("processing failed for interaction %s", interactionID)
		}

		select {
		case <-time.After(s.pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if raw == nil {
		return nil, fmt.Errorf("timed out waiting for transcript of interaction %s", interactionID)
	}

	lines := ExtractCleanLines(raw)

	// keep the {speaker, text} shape the UI already renders, with a single
	// "Transcript" stream
	uiLines := make([]TranscriptLine, 0, len(lines))
	for _, line := range lines {
		uiLines = append(uiLines, TranscriptLine{Speaker: "Transcript", Text: line})
	}

	return &TranscriptResult{
		InteractionID:   interactionID,
		TranscriptLines: lines,
		Transcript:      uiLines,
	}, nil
}

// TranscribeCall runs the flow for a registered call, moving it through
// processing/processed/failed and storing the transcript.
func (s *TranscriptionService) TranscribeCall(ctx context.Context, callID, downloadURI string) (*TranscriptResult, error) {
	if err := s.callRepo.UpdateStatus(ctx, callID, model.CallProcessing); err != nil {
		return nil, fmt.Errorf("failed to mark call processing: %w", err)
	}

	result, err := s.Transcribe(ctx, downloadURI)
	if err != nil {
		if statusErr := s.callRepo.UpdateStatus(ctx, callID, model.CallFailed); statusErr != nil {
			log.Printf("Warning: failed to mark call %s failed: %v", callID, statusErr)
		}
		return nil, err
	}

	if err := s.callRepo.SetTranscript(ctx, callID, strings.Join(result.TranscriptLines, "\n")); err != nil {
		return nil, fmt.Errorf("failed to store transcript: %w", err)
	}
	if err := s.callRepo.UpdateStatus(ctx, callID, model.CallProcessed); err != nil {
		return nil, fmt.Errorf("failed to mark call processed: %w", err)
	}
	return result, nil
}
