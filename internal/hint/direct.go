package hint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"synonymseeker/internal/models"
)

// APIKeyHeader authenticates direct analyzer calls
const APIKeyHeader = "X-API-Key"

// DirectStage posts the request straight to the analyzer's JSON endpoint
type DirectStage struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewDirectStage creates the secondary stage
func NewDirectStage(baseURL, apiKey string, client *http.Client) *DirectStage {
	if client == nil {
		client = &http.Client{}
	}
	return &DirectStage{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

func (s *DirectStage) Name() string { return "direct" }

// Hint calls POST /analyze-hint
func (s *DirectStage) Hint(ctx context.Context, req models.HintRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode hint request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/analyze-hint", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set(APIKeyHeader, s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var hint models.HintResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&hint); err != nil {
		return "", fmt.Errorf("failed to decode analyzer response: %w", err)
	}
	return hint.HintText, nil
}
