package http

import (
	"github.com/ahmad2b/cogniserve/internal/runtime"
	"github.com/ahmad2b/cogniserve/internal/session"
)

// AgentRequest is the request body shared by the run and stream endpoints.
type AgentRequest struct {
	Message   string         `json:"message"`
	MaxTurns  int            `json:"max_turns"`
	Context   map[string]any `json:"context"`
	SessionID string         `json:"session_id"`
}

// AgentResponse is the synchronous run response. Success is the single place
// callers check the outcome; runtime failures are reported here with a 200
// status, not as an HTTP error.
type AgentResponse struct {
	FinalOutput any            `json:"final_output"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Usage       *runtime.Usage `json:"usage,omitempty"`
	ResponseID  string         `json:"response_id,omitempty"`
	SessionID   string         `json:"session_id,omitempty"`
}

// AgentInfo describes one bound agent and its endpoints.
type AgentInfo struct {
	Name          string            `json:"name"`
	AgentName     string            `json:"agent_name"`
	Instructions  string            `json:"instructions,omitempty"`
	Model         string            `json:"model,omitempty"`
	ToolsCount    int               `json:"tools_count"`
	HandoffsCount int               `json:"handoffs_count"`
	Endpoints     map[string]string `json:"endpoints"`
}

// SessionMessagesResponse lists a session transcript.
type SessionMessagesResponse struct {
	SessionID    string            `json:"session_id"`
	Messages     []session.Message `json:"messages"`
	MessageCount int               `json:"message_count"`
	Success      bool              `json:"success"`
	Error        string            `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
