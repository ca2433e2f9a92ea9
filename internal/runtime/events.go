package runtime

// Kind discriminates the event variants a streamed run can produce.
type Kind string

const (
	KindRawResponse  Kind = "raw_response"
	KindRunItem      Kind = "run_item"
	KindAgentUpdated Kind = "agent_updated"
)

// Event is one entry in a streamed run's event feed. The set of variants the
// server understands is closed (raw response, run item, agent updated);
// anything else degrades to an unknown rendering instead of failing the
// stream.
type Event interface {
	Kind() Kind
}

// Raw-response sub-kinds emitted by the runtime. The projector understands
// this list; unlisted sub-kinds pass through with base fields only.
const (
	RawTypeTextDelta         = "response.output_text.delta"
	RawTypeTextDone          = "response.output_text.done"
	RawTypeReasoningDelta    = "response.reasoning_summary_text.delta"
	RawTypeRefusalDelta      = "response.refusal.delta"
	RawTypeFunctionArgsDelta = "response.function_call_arguments.delta"
	RawTypeResponseCreated   = "response.created"
	RawTypeResponseCompleted = "response.completed"
	RawTypeContentPartAdded  = "response.content_part.added"
	RawTypeContentPartDone   = "response.content_part.done"
	RawTypeOutputItemAdded   = "response.output_item.added"
	RawTypeOutputItemDone    = "response.output_item.done"
)

// ResponseStatus carries the model response lifecycle payload attached to
// created/completed events.
type ResponseStatus struct {
	ID     string
	Status string
}

// OutputItem is the partial item payload attached to output-item lifecycle
// events.
type OutputItem struct {
	Type   string
	Name   string
	CallID string
}

// RawResponseEvent is a model-level delta or lifecycle signal. Every field
// except Type is optional; consumers must tolerate zero values.
type RawResponseEvent struct {
	Type           string
	SequenceNumber *int
	Delta          string
	Text           string
	ContentIndex   int
	OutputIndex    int
	ItemID         string
	CallID         string
	Response       *ResponseStatus
	Item           *OutputItem
}

func (*RawResponseEvent) Kind() Kind { return KindRawResponse }

// Run-item names produced by the runtime.
const (
	ItemMessageOutputCreated = "message_output_created"
	ItemToolCalled           = "tool_called"
	ItemToolOutput           = "tool_output"
	ItemHandoffRequested     = "handoff_requested"
	ItemHandoffOccured       = "handoff_occured"
	ItemReasoningCreated     = "reasoning_item_created"
	ItemMCPApprovalRequested = "mcp_approval_requested"
	ItemMCPListTools         = "mcp_list_tools"
)

// RunItem is the flat optional payload bag attached to a run-item event.
// Which fields are populated depends on the item name; all of them may be
// absent on malformed events.
type RunItem struct {
	Type             string
	ID               string
	Role             string
	Status           string
	ToolName         string
	Arguments        string
	Output           string
	CallID           string
	TargetAgent      string
	PreviousAgent    string
	Reason           string
	ReasoningContent string
	ServerName       string
	Tools            []string
}

// RunItemEvent is a semantic milestone in the run: a produced message, a
// tool invocation or result, a handoff, a reasoning step, or an MCP
// interaction.
type RunItemEvent struct {
	Name string
	Item *RunItem
}

func (*RunItemEvent) Kind() Kind { return KindRunItem }

// AgentUpdatedEvent signals a completed handoff; NewAgent is the now-active
// agent configuration.
type AgentUpdatedEvent struct {
	NewAgent *AgentConfig
}

func (*AgentUpdatedEvent) Kind() Kind { return KindAgentUpdated }
