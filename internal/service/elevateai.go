package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"
)

// ElevateAIClient wraps the ElevateAI speech-to-text API
type ElevateAIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewElevateAIClient creates a client for the transcription service
func NewElevateAIClient(baseURL, token string) *ElevateAIClient {
	if token == "" {
		log.Println("Warning: ELEVATEAI_API_TOKEN not set")
	}

	return &ElevateAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 5,
	}
}

// IsConfigured returns true if base URL and access token are set
func (c *ElevateAIClient) IsConfigured() bool {
	return c.baseURL != "" && c.token != ""
}

// DeclareRequest declares a new audio interaction for processing
type DeclareRequest struct {
	Type        string `json:"type"`
	Model       string `json:"model"`
	LanguageTag string `json:"languageTag"`
	DownloadURI string `json:"downloadUri"`
}

// DeclareResponse is the API response for a declared interaction
type DeclareResponse struct {
	InteractionIdentifier string `json:"interactionIdentifier"`
	ID                    string `json:"id"`
}

// InteractionID returns whichever identifier field the API populated
func (r *DeclareResponse) InteractionID() string {
	if r.InteractionIdentifier != "" {
		return r.InteractionIdentifier
	}
	return r.ID
}

// StatusResponse is the processing status of an interaction
type StatusResponse struct {
	Status string `json:"status"`
}

// doRequest performs an HTTP request with retry logic
func (c *ElevateAIClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := c.baseURL + path
	log.Printf("[ElevateAI] %s %s", method, path)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[ElevateAI] Retry attempt %d/%d for %s %s", attempt, c.maxRetries, method, path)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("X-API-Token", c.token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[ElevateAI] ERROR: HTTP request failed (attempt %d): %v", attempt+1, err)
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		// Rate limiting: exponential backoff
		if resp.StatusCode == http.StatusTooManyRequests {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			log.Printf("[ElevateAI] RATE LIMITED: retry %d/%d in %v", attempt+1, c.maxRetries, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("rate limited")
			continue
		}

		if resp.StatusCode >= 400 {
			log.Printf("[ElevateAI] ERROR: API returned %d: %s", resp.StatusCode, string(respBody))
			return nil, fmt.Errorf("ElevateAI API error %d: %s", resp.StatusCode, string(respBody))
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Declare submits an audio URI for transcription and returns the interaction id
func (c *ElevateAIClient) Declare(ctx context.Context, downloadURI string) (string, error) {
	payload, _ := json.Marshal(DeclareRequest{
		Type:        "audio",
		Model:       "echo",
		LanguageTag: "en-us",
		DownloadURI: downloadURI,
	})

	respBody, err := c.doRequest(ctx, http.MethodPost, "/interactions", payload)
	if err != nil {
		return "", err
	}

	var decl DeclareResponse
	if err := json.Unmarshal(respBody, &decl); err != nil {
		return "", fmt.Errorf("failed to parse declare response: %w", err)
	}
	if decl.InteractionID() == "" {
		return "", fmt.Errorf("no interaction id returned")
	}
	return decl.InteractionID(), nil
}

// Status fetches the processing status for an interaction
func (c *ElevateAIClient) Status(ctx context.Context, interactionID string) (string, error) {
	path := fmt.Sprintf("/interactions/%s/status", interactionID)

	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	var status StatusResponse
	if err := json.Unmarshal(respBody, &status); err != nil {
		return "", fmt.Errorf("failed to parse status response: %w", err)
	}
	return strings.ToLower(status.Status), nil
}

// Transcript fetches the raw transcript JSON for a processed interaction.
// The response shape varies with diarization settings, so it is returned as
// a generic document for the extractor to normalize.
func (c *ElevateAIClient) Transcript(ctx context.Context, interactionID string) (map[string]interface{}, error) {
	path := fmt.Sprintf("/interactions/%s/transcript", interactionID)

	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse transcript response: %w", err)
	}
	return raw, nil
}
