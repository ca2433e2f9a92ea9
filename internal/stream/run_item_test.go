package stream

import (
	"strings"
	"testing"

	"github.com/ahmad2b/cogniserve/internal/runtime"
)

func TestProjectRunItemVariants(t *testing.T) {
	tests := []struct {
		name string
		ev   *runtime.RunItemEvent
		want map[string]any
	}{
		{
			name: "message output created",
			ev: &runtime.RunItemEvent{
				Name: runtime.ItemMessageOutputCreated,
				Item: &runtime.RunItem{Type: "message", ID: "msg_1", Role: "assistant", Status: "completed"},
			},
			want: map[string]any{"role": "assistant", "status": "completed", "message_id": "msg_1"},
		},
		{
			name: "tool called",
			ev: &runtime.RunItemEvent{
				Name: runtime.ItemToolCalled,
				Item: &runtime.RunItem{Type: "function_call", ToolName: "search", Arguments: `{"q":"x"}`, CallID: "call_1"},
			},
			want: map[string]any{"tool_name": "search", "tool_arguments": `{"q":"x"}`, "call_id": "call_1"},
		},
		{
			name: "tool output",
			ev: &runtime.RunItemEvent{
				Name: runtime.ItemToolOutput,
				Item: &runtime.RunItem{ToolName: "search", Output: "3 results", CallID: "call_1"},
			},
			want: map[string]any{"tool_name": "search", "output": "3 results", "call_id": "call_1"},
		},
		{
			name: "handoff requested",
			ev: &runtime.RunItemEvent{
				Name: runtime.ItemHandoffRequested,
				Item: &runtime.RunItem{TargetAgent: "Writer", Reason: "drafting"},
			},
			want: map[string]any{"target_agent": "Writer", "reason": "drafting"},
		},
		{
			name: "handoff occured",
			ev: &runtime.RunItemEvent{
				Name: runtime.ItemHandoffOccured,
				Item: &runtime.RunItem{TargetAgent: "Writer", PreviousAgent: "Planner"},
			},
			want: map[string]any{"target_agent": "Writer", "previous_agent": "Planner"},
		},
		{
			name: "reasoning item",
			ev: &runtime.RunItemEvent{
				Name: runtime.ItemReasoningCreated,
				Item: &runtime.RunItem{ReasoningContent: "step by step"},
			},
			want: map[string]any{"reasoning_content": "step by step"},
		},
		{
			name: "mcp approval requested",
			ev: &runtime.RunItemEvent{
				Name: runtime.ItemMCPApprovalRequested,
				Item: &runtime.RunItem{ToolName: "deploy", ServerName: "infra"},
			},
			want: map[string]any{"tool_name": "deploy", "server_name": "infra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Project(tt.ev)
			if out["type"] != "run_item" || out["name"] != tt.ev.Name {
				t.Fatalf("base fields wrong: %v", out)
			}
			for key, want := range tt.want {
				if got := out[key]; got != want {
					t.Errorf("%s = %v, want %v", key, got, want)
				}
			}
		})
	}
}

func TestProjectRunItemMCPListTools(t *testing.T) {
	out := Project(&runtime.RunItemEvent{
		Name: runtime.ItemMCPListTools,
		Item: &runtime.RunItem{ServerName: "infra", Tools: []string{"deploy", "rollback"}},
	})

	if out["server_name"] != "infra" {
		t.Errorf("server_name = %v", out["server_name"])
	}
	tools, ok := out["tools"].([]string)
	if !ok || len(tools) != 2 {
		t.Errorf("tools = %v", out["tools"])
	}
}

func TestProjectRunItemUnknownNameBaseFieldsOnly(t *testing.T) {
	out := Project(&runtime.RunItemEvent{
		Name: "guardrail_tripped",
		Item: &runtime.RunItem{Type: "guardrail", ToolName: "should not appear"},
	})

	if out["name"] != "guardrail_tripped" || out["item_type"] != "guardrail" {
		t.Errorf("base fields = %v", out)
	}
	if _, present := out["tool_name"]; present {
		t.Errorf("unknown names must project base fields only, got %v", out)
	}
}

func TestProjectRunItemNilItem(t *testing.T) {
	out := Project(&runtime.RunItemEvent{Name: runtime.ItemToolCalled})
	if out["item_type"] != nil || out["tool_name"] != nil || out["call_id"] != nil {
		t.Errorf("nil item should project nulls, got %v", out)
	}
}

func TestProjectRunItemTruncatesLongFields(t *testing.T) {
	long := strings.Repeat("a", MaxFieldChars*2)
	out := Project(&runtime.RunItemEvent{
		Name: runtime.ItemToolCalled,
		Item: &runtime.RunItem{ToolName: "search", Arguments: long},
	})

	args, _ := out["tool_arguments"].(string)
	if len([]rune(args)) != MaxFieldChars+3 || !strings.HasSuffix(args, "...") {
		t.Errorf("tool_arguments not truncated: %d chars", len(args))
	}
}
