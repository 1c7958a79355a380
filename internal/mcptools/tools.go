// Package mcptools exposes the game engine as MCP tools.
//
// Each tool is a struct holding the game service with Definition() returning
// the mcp.Tool schema and Handle() serving a call. Game failures come back as
// tool errors carrying the user-safe message.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"synonymseeker/internal/models"
	"synonymseeker/internal/service"
	"synonymseeker/internal/validation"
)

// GameService is the subset of the game engine the tools call
type GameService interface {
	StartGame(ctx context.Context) (*models.StartGameResponse, error)
	SubmitGuess(ctx context.Context, sessionID, guess string) (*models.GuessResponse, error)
	GiveUp(ctx context.Context, sessionID string) (*models.GiveUpResponse, error)
	GetSession(ctx context.Context, sessionID string) (*models.SessionView, error)
}

// NewServer creates an MCP server with every game tool registered
func NewServer(games GameService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"synonymseeker",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Play SynonymSeeker: start a game, then guess the four hidden synonyms of the target word."),
	)

	start := NewStartGameTool(games)
	s.AddTool(start.Definition(), start.Handle)

	guess := NewSubmitGuessTool(games)
	s.AddTool(guess.Definition(), guess.Handle)

	giveUp := NewGiveUpTool(games)
	s.AddTool(giveUp.Definition(), giveUp.Handle)

	get := NewGetSessionTool(games)
	s.AddTool(get.Definition(), get.Handle)

	return s
}

// StartGameTool handles the start_game MCP tool.
type StartGameTool struct {
	games GameService
}

// NewStartGameTool creates a StartGameTool.
func NewStartGameTool(games GameService) *StartGameTool {
	return &StartGameTool{games: games}
}

// Definition returns the MCP tool definition for start_game.
func (t *StartGameTool) Definition() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new puzzle. Returns the session id, the target word and the letter count of each hidden synonym."),
	)
}

// Handle processes the start_game tool call.
func (t *StartGameTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.games.StartGame(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(resp)
}

// SubmitGuessTool handles the submit_guess MCP tool.
type SubmitGuessTool struct {
	games GameService
}

// NewSubmitGuessTool creates a SubmitGuessTool.
func NewSubmitGuessTool(games GameService) *SubmitGuessTool {
	return &SubmitGuessTool{games: games}
}

// Definition returns the MCP tool definition for submit_guess.
func (t *SubmitGuessTool) Definition() mcp.Tool {
	return mcp.NewTool("submit_guess",
		mcp.WithDescription("Guess one synonym of the target word. Incorrect guesses come back with a hint."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by start_game"),
		),
		mcp.WithString("guess",
			mcp.Required(),
			mcp.Description("A single word"),
		),
	)
}

// Handle processes the submit_guess tool call.
func (t *SubmitGuessTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	resp, err := t.games.SubmitGuess(ctx, sessionID, req.GetString("guess", ""))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(resp)
}

// GiveUpTool handles the give_up MCP tool.
type GiveUpTool struct {
	games GameService
}

// NewGiveUpTool creates a GiveUpTool.
func NewGiveUpTool(games GameService) *GiveUpTool {
	return &GiveUpTool{games: games}
}

// Definition returns the MCP tool definition for give_up.
func (t *GiveUpTool) Definition() mcp.Tool {
	return mcp.NewTool("give_up",
		mcp.WithDescription("End the game and reveal every synonym."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by start_game"),
		),
	)
}

// Handle processes the give_up tool call.
func (t *GiveUpTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	resp, err := t.games.GiveUp(ctx, sessionID)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(resp)
}

// GetSessionTool handles the get_session MCP tool.
type GetSessionTool struct {
	games GameService
}

// NewGetSessionTool creates a GetSessionTool.
func NewGetSessionTool(games GameService) *GetSessionTool {
	return &GetSessionTool{games: games}
}

// Definition returns the MCP tool definition for get_session.
func (t *GetSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("get_session",
		mcp.WithDescription("Show the current state of a game without changing it."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by start_game"),
		),
	)
}

// Handle processes the get_session tool call.
func (t *GetSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	view, err := t.games.GetSession(ctx, sessionID)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(view)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError keeps internal causes out of the result
func toolError(err error) *mcp.CallToolResult {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return mcp.NewToolResultError(verr.Message)
	}
	var gerr *service.GameError
	if errors.As(err, &gerr) {
		return mcp.NewToolResultError(gerr.Message)
	}
	return mcp.NewToolResultError("internal error")
}
