package stream

import "github.com/ahmad2b/cogniserve/internal/runtime"

// projectRunItem summarizes a semantic run-item event. Long textual fields
// are truncated so frame sizes stay bounded; run items with names outside
// the known set keep base fields only.
func projectRunItem(ev *runtime.RunItemEvent) OutputEvent {
	item := ev.Item
	if item == nil {
		item = &runtime.RunItem{}
	}

	out := OutputEvent{
		"type":      "run_item",
		"name":      ev.Name,
		"item_type": stringOrNil(item.Type),
	}

	switch ev.Name {
	case runtime.ItemMessageOutputCreated:
		out["role"] = stringOrNil(item.Role)
		out["status"] = stringOrNil(item.Status)
		out["message_id"] = stringOrNil(item.ID)

	case runtime.ItemToolCalled:
		out["tool_name"] = stringOrNil(item.ToolName)
		out["tool_arguments"] = truncatedOrNil(item.Arguments)
		out["call_id"] = stringOrNil(item.CallID)

	case runtime.ItemToolOutput:
		out["tool_name"] = stringOrNil(item.ToolName)
		out["output"] = truncatedOrNil(item.Output)
		out["call_id"] = stringOrNil(item.CallID)

	case runtime.ItemHandoffRequested:
		out["target_agent"] = stringOrNil(item.TargetAgent)
		out["reason"] = stringOrNil(item.Reason)

	case runtime.ItemHandoffOccured:
		out["target_agent"] = stringOrNil(item.TargetAgent)
		out["previous_agent"] = stringOrNil(item.PreviousAgent)

	case runtime.ItemReasoningCreated:
		out["reasoning_content"] = truncatedOrNil(item.ReasoningContent)

	case runtime.ItemMCPApprovalRequested:
		out["tool_name"] = stringOrNil(item.ToolName)
		out["server_name"] = stringOrNil(item.ServerName)

	case runtime.ItemMCPListTools:
		out["server_name"] = stringOrNil(item.ServerName)
		tools := item.Tools
		if tools == nil {
			tools = []string{}
		}
		out["tools"] = tools
	}

	return out
}

func truncatedOrNil(s string) any {
	if s == "" {
		return nil
	}
	return Truncate(s)
}
