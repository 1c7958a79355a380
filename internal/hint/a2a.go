package hint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"synonymseeker/internal/a2a"
	"synonymseeker/internal/models"
)

// maxResponseBytes bounds how much of a remote reply is read
const maxResponseBytes = 1 << 20

// A2AStage asks a remote agent for a hint over JSON-RPC message/send
type A2AStage struct {
	baseURL string
	client  *http.Client
	tokens  oauth2.TokenSource

	fetches singleflight.Group
	mu      sync.Mutex
	card    *a2a.AgentCard
}

// NewA2AStage creates the primary stage. tokens may be nil.
func NewA2AStage(baseURL string, client *http.Client, tokens oauth2.TokenSource) *A2AStage {
	if client == nil {
		client = &http.Client{}
	}
	return &A2AStage{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tokens:  tokens,
	}
}

func (s *A2AStage) Name() string { return "a2a" }

// Hint resolves the agent card once, then sends the analysis request
func (s *A2AStage) Hint(ctx context.Context, req models.HintRequest) (string, error) {
	card, err := s.agentCard(ctx)
	if err != nil {
		return "", err
	}

	data, err := a2a.DataPart(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode hint request: %w", err)
	}
	params, err := json.Marshal(a2a.SendParams{Message: a2a.Message{
		Kind:      "message",
		MessageID: uuid.NewString(),
		Role:      "user",
		Parts: []a2a.Part{
			a2a.TextPart(fmt.Sprintf("Analyze guess '%s' for target word '%s'. Provide helpful hint.", req.Guess, req.TargetWord)),
			data,
		},
	}})
	if err != nil {
		return "", fmt.Errorf("failed to encode message: %w", err)
	}
	body, err := json.Marshal(a2a.Request{
		JSONRPC: a2a.Version,
		ID:      uuid.NewString(),
		Method:  a2a.MethodMessageSend,
		Params:  params,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, card.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(a2a.SessionHeader, uuid.NewString())
	if err := setAuth(httpReq, s.tokens); err != nil {
		return "", err
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	var rpcResp a2a.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&rpcResp); err != nil {
		return "", fmt.Errorf("failed to decode agent response: %w", err)
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("agent error %d: %w", rpcResp.Error.Code, rpcResp.Error)
	}
	if len(rpcResp.Result) == 0 {
		return "", fmt.Errorf("agent response has no result")
	}
	return a2a.ResultText(rpcResp.Result)
}

// agentCard returns the cached card or joins a single in-flight fetch. The
// fetch is not tied to any one caller, so a caller that gives up does not
// fail the others.
func (s *A2AStage) agentCard(ctx context.Context) (*a2a.AgentCard, error) {
	s.mu.Lock()
	card := s.card
	s.mu.Unlock()
	if card != nil {
		return card, nil
	}

	ch := s.fetches.DoChan("card", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTimeout)
		defer cancel()
		return s.fetchAgentCard(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to fetch agent card: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*a2a.AgentCard), nil
	}
}

func (s *A2AStage) fetchAgentCard(ctx context.Context) (*a2a.AgentCard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+a2a.AgentCardPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build agent card request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent card returned status %d", resp.StatusCode)
	}

	var card a2a.AgentCard
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode agent card: %w", err)
	}
	if card.URL == "" {
		card.URL = s.baseURL + "/"
	}

	s.mu.Lock()
	s.card = &card
	s.mu.Unlock()
	return &card, nil
}

func setAuth(req *http.Request, tokens oauth2.TokenSource) error {
	if tokens == nil {
		return nil
	}
	tok, err := tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}
	tok.SetAuthHeader(req)
	return nil
}
