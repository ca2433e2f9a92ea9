package runtime

import "context"

// DefaultMaxTurns bounds a run when the caller does not specify a limit.
const DefaultMaxTurns = 10

// Request is the per-call input to a run. Owned by one request handler and
// discarded after the call completes.
type Request struct {
	Message   string
	MaxTurns  int
	Context   map[string]any
	SessionID string
}

// Usage aggregates the token accounting reported by the model provider.
type Usage struct {
	Requests     int `json:"requests"`
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Result is the terminal outcome of a run.
type Result struct {
	FinalOutput any
	CurrentTurn int
	Usage       *Usage
	ResponseID  string
}

// Stream is a live, finite, single-pass event feed for one streamed run.
// Events are delivered in production order and the channel is closed when
// the run finishes. Result reports the terminal outcome once the channel is
// closed; a non-nil error means the run failed mid-stream. Close releases
// the underlying producer and may be called at any time, including before
// the feed is drained.
type Stream interface {
	Events() <-chan Event
	Result() (*Result, error)
	Close()
}

// Runner is the external agent runtime boundary. Implementations orchestrate
// prompts, tools and handoffs; this server only consumes results and event
// feeds through this interface.
type Runner interface {
	Run(ctx context.Context, agent *AgentConfig, req Request) (*Result, error)
	RunStreamed(ctx context.Context, agent *AgentConfig, req Request) (Stream, error)
}
