package mcptools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"synonymseeker/internal/models"
	"synonymseeker/internal/service"
	"synonymseeker/internal/session"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

type fixedSource struct{}

func (fixedSource) GeneratePuzzle(context.Context) (*models.Puzzle, error) {
	return &models.Puzzle{
		TargetWord: "cold",
		Synonyms:   [models.SlotCount]string{"chilly", "freezing", "icy", "frigid"},
	}, nil
}

type fixedHints struct{}

func (fixedHints) ObtainHint(context.Context, string, string, []string) string {
	return "Consider words that describe low temperature."
}

func newTestGames(t *testing.T) *service.GameService {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	return service.NewGameService(store, fixedSource{}, fixedHints{}, nil)
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func startSession(t *testing.T, games GameService) string {
	t.Helper()
	result, err := NewStartGameTool(games).Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("start_game: %v", err)
	}
	if result.IsError {
		t.Fatalf("start_game returned error: %s", resultText(result))
	}

	var resp models.StartGameResponse
	if err := json.Unmarshal([]byte(resultText(result)), &resp); err != nil {
		t.Fatalf("decoding start_game result: %v", err)
	}
	return resp.SessionID
}

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	games := newTestGames(t)

	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewStartGameTool(games).Definition(), "start_game", nil},
		{NewSubmitGuessTool(games).Definition(), "submit_guess", []string{"session_id", "guess"}},
		{NewGiveUpTool(games).Definition(), "give_up", []string{"session_id"}},
		{NewGetSessionTool(games).Definition(), "get_session", []string{"session_id"}},
	}

	for _, tt := range tests {
		if tt.def.Name != tt.name {
			t.Errorf("tool name = %q, want %q", tt.def.Name, tt.name)
		}
		for _, want := range tt.required {
			if _, ok := tt.def.InputSchema.Properties[want]; !ok {
				t.Errorf("%s: missing %q parameter", tt.name, want)
			}
			found := false
			for _, r := range tt.def.InputSchema.Required {
				if r == want {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: %q should be required", tt.name, want)
			}
		}
	}
}

func TestNewServer(t *testing.T) {
	if NewServer(newTestGames(t), "test") == nil {
		t.Fatal("NewServer returned nil")
	}
}

// ─── Game flow ───────────────────────────────────────────────────────────────

func TestSubmitGuessTool(t *testing.T) {
	games := newTestGames(t)
	id := startSession(t, games)
	tool := NewSubmitGuessTool(games)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"guess":      "icy",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var correct models.GuessResponse
	if err := json.Unmarshal([]byte(resultText(result)), &correct); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if !correct.Success {
		t.Errorf("expected success, got %+v", correct)
	}

	result, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"guess":      "warm",
	}))
	var wrong models.GuessResponse
	if err := json.Unmarshal([]byte(resultText(result)), &wrong); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if wrong.Hint == nil || *wrong.Hint != "Consider words that describe low temperature." {
		t.Errorf("unexpected hint: %v", wrong.Hint)
	}
}

func TestSubmitGuessToolErrors(t *testing.T) {
	games := newTestGames(t)
	id := startSession(t, games)
	tool := NewSubmitGuessTool(games)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing session", map[string]interface{}{"guess": "icy"}, "'session_id' is required"},
		{"unknown session", map[string]interface{}{"session_id": "nope", "guess": "icy"}, "Session not found"},
		{"two words", map[string]interface{}{"session_id": id, "guess": "very cold"}, "Please enter only one word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), makeReq(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected tool error, got %q", resultText(result))
			}
			if !strings.Contains(resultText(result), tt.want) {
				t.Errorf("error = %q, want it to contain %q", resultText(result), tt.want)
			}
		})
	}
}

func TestGiveUpAndGetSessionTools(t *testing.T) {
	games := newTestGames(t)
	id := startSession(t, games)

	result, err := NewGiveUpTool(games).Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	if err != nil || result.IsError {
		t.Fatalf("give_up failed: %v %s", err, resultText(result))
	}

	result, err = NewGetSessionTool(games).Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	if err != nil || result.IsError {
		t.Fatalf("get_session failed: %v %s", err, resultText(result))
	}
	var view models.SessionView
	if err := json.Unmarshal([]byte(resultText(result)), &view); err != nil {
		t.Fatalf("decoding view: %v", err)
	}
	if view.Status != models.StatusGivenUp {
		t.Errorf("status = %q, want %q", view.Status, models.StatusGivenUp)
	}
	for i, slot := range view.Synonyms {
		if slot.Word == nil {
			t.Errorf("slot %d should be revealed", i)
		}
	}

	result, _ = NewSubmitGuessTool(games).Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"guess":      "icy",
	}))
	if !result.IsError || !strings.Contains(resultText(result), "no longer active") {
		t.Errorf("expected not-active error, got %q", resultText(result))
	}
}

func TestSessionToolsRequireID(t *testing.T) {
	games := newTestGames(t)

	for name, handle := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"give_up":     NewGiveUpTool(games).Handle,
		"get_session": NewGetSessionTool(games).Handle,
	} {
		result, err := handle(context.Background(), makeReq(map[string]interface{}{}))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if !result.IsError {
			t.Errorf("%s: expected error for missing session_id", name)
		}
	}
}
