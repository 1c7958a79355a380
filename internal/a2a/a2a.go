// Package a2a holds the subset of the agent-to-agent protocol shared by the
// hint client and the hint analyzer: the agent card and JSON-RPC message/send.
package a2a

import (
	"encoding/json"
	"errors"
)

const (
	// AgentCardPath is where an agent publishes its card
	AgentCardPath = "/.well-known/agent.json"
	// MethodMessageSend is the only JSON-RPC method used
	MethodMessageSend = "message/send"
	// SessionHeader carries the per-request runtime session id
	SessionHeader = "X-Amzn-Bedrock-AgentCore-Runtime-Session-Id"
	// Version is the JSON-RPC protocol version
	Version = "2.0"
)

// JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// AgentCard describes an agent and where to reach it
type AgentCard struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	URL                string       `json:"url"`
	Version            string       `json:"version"`
	Capabilities       Capabilities `json:"capabilities"`
	DefaultInputModes  []string     `json:"defaultInputModes"`
	DefaultOutputModes []string     `json:"defaultOutputModes"`
	Skills             []Skill      `json:"skills"`
}

// Capabilities lists optional protocol features
type Capabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications"`
}

// Skill is one advertised ability of an agent
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// Part is one piece of message content, either text or structured data
type Part struct {
	Kind string          `json:"kind"`
	Text string          `json:"text,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// TextPart builds a text part
func TextPart(text string) Part {
	return Part{Kind: "text", Text: text}
}

// DataPart builds a structured data part
func DataPart(v any) (Part, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Part{}, err
	}
	return Part{Kind: "data", Data: data}, nil
}

// Message is a single turn from a user or an agent
type Message struct {
	Kind      string `json:"kind"`
	MessageID string `json:"messageId"`
	Role      string `json:"role"`
	Parts     []Part `json:"parts"`
}

// FirstText returns the first non-empty text part
func (m Message) FirstText() (string, bool) {
	for _, p := range m.Parts {
		if p.Kind == "text" && p.Text != "" {
			return p.Text, true
		}
	}
	return "", false
}

// Artifact is an output produced by a task
type Artifact struct {
	ArtifactID string `json:"artifactId"`
	Parts      []Part `json:"parts"`
}

// Task is a unit of work an agent may return instead of a message
type Task struct {
	Kind      string     `json:"kind"`
	ID        string     `json:"id"`
	Artifacts []Artifact `json:"artifacts"`
}

// SendParams are the params of message/send
type SendParams struct {
	Message Message `json:"message"`
}

// Request is a JSON-RPC request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// ResultText extracts the hint text from a message/send result, which is
// either a message or a task with artifacts.
func ResultText(result json.RawMessage) (string, error) {
	var envelope struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(result, &envelope); err != nil {
		return "", err
	}

	switch envelope.Kind {
	case "message":
		var msg Message
		if err := json.Unmarshal(result, &msg); err != nil {
			return "", err
		}
		if text, ok := msg.FirstText(); ok {
			return text, nil
		}
	case "task":
		var task Task
		if err := json.Unmarshal(result, &task); err != nil {
			return "", err
		}
		if len(task.Artifacts) > 0 {
			if text, ok := (Message{Parts: task.Artifacts[0].Parts}).FirstText(); ok {
				return text, nil
			}
		}
	default:
		return "", errors.New("unknown result kind " + envelope.Kind)
	}
	return "", errors.New("result carries no text")
}
