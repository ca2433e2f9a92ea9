package runtime

import "context"

// InstructionsFunc produces agent instructions at run time from the caller
// supplied context mapping. Agents configured with a function instead of
// static text report themselves as dynamically instructed.
type InstructionsFunc func(ctx context.Context, runContext map[string]any) (string, error)

// ToolSpec describes a tool the agent is allowed to invoke. The actual tool
// implementation lives in the agent runtime; the server only needs the
// descriptor for info responses.
type ToolSpec struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// AgentConfig is the immutable description of one agent: its instructions,
// model binding, allowed tools and permitted handoff targets. Configs are
// built once at startup and shared read-only across requests.
type AgentConfig struct {
	Name                string
	Instructions        string
	DynamicInstructions InstructionsFunc
	Model               string
	Tools               []ToolSpec
	Handoffs            []*AgentConfig
}

// HasDynamicInstructions reports whether instructions are produced by a
// function rather than static text.
func (a *AgentConfig) HasDynamicInstructions() bool {
	return a != nil && a.DynamicInstructions != nil
}

// ResolveInstructions returns the instruction text for a run. Static text is
// returned as-is; dynamic instructions are evaluated against runContext.
func (a *AgentConfig) ResolveInstructions(ctx context.Context, runContext map[string]any) (string, error) {
	if a == nil {
		return "", nil
	}
	if a.DynamicInstructions != nil {
		return a.DynamicInstructions(ctx, runContext)
	}
	return a.Instructions, nil
}
