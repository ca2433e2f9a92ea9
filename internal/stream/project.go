package stream

import (
	"fmt"

	"github.com/ahmad2b/cogniserve/internal/runtime"
)

// OutputEvent is the normalized, wire-ready record produced for one runtime
// event: a "type" tag plus variant-specific fields.
type OutputEvent map[string]any

// Project maps a runtime event to its normalized output record. Every field
// access on the source event is defensive: absent optional fields become
// null or are omitted, never a failure. Unrecognized events yield an
// unknown_event record so the stream keeps flowing.
func Project(ev runtime.Event) OutputEvent {
	switch Classify(ev) {
	case CategoryRawResponse:
		if raw, ok := ev.(*runtime.RawResponseEvent); ok {
			return projectRawResponse(raw)
		}
	case CategoryRunItem:
		if item, ok := ev.(*runtime.RunItemEvent); ok {
			return projectRunItem(item)
		}
	case CategoryAgentUpdated:
		if updated, ok := ev.(*runtime.AgentUpdatedEvent); ok {
			return projectAgentUpdated(updated)
		}
	}
	return projectUnknown(ev)
}

func projectRawResponse(ev *runtime.RawResponseEvent) OutputEvent {
	eventType := ev.Type
	if eventType == "" {
		eventType = "unknown"
	}
	out := OutputEvent{
		"type":            "raw_response",
		"event_type":      eventType,
		"sequence_number": intOrNil(ev.SequenceNumber),
	}

	switch ev.Type {
	case runtime.RawTypeTextDelta:
		out["delta"] = ev.Delta
		out["content_index"] = ev.ContentIndex
		out["item_id"] = stringOrNil(ev.ItemID)
		out["output_index"] = ev.OutputIndex

	case runtime.RawTypeReasoningDelta:
		out["delta"] = ev.Delta
		out["reasoning"] = true

	case runtime.RawTypeRefusalDelta:
		out["delta"] = ev.Delta
		out["refusal"] = true

	case runtime.RawTypeFunctionArgsDelta:
		out["delta"] = ev.Delta
		out["function_call"] = true
		out["call_id"] = stringOrNil(ev.CallID)

	case runtime.RawTypeResponseCreated, runtime.RawTypeResponseCompleted:
		if ev.Response != nil {
			out["response_id"] = stringOrNil(ev.Response.ID)
			out["status"] = stringOrNil(ev.Response.Status)
		} else {
			out["response_id"] = nil
			out["status"] = nil
		}

	case runtime.RawTypeContentPartAdded, runtime.RawTypeContentPartDone:
		out["content_index"] = ev.ContentIndex
		out["item_id"] = stringOrNil(ev.ItemID)

	case runtime.RawTypeOutputItemAdded, runtime.RawTypeOutputItemDone:
		out["output_index"] = ev.OutputIndex
		if ev.Item != nil {
			out["item_type"] = stringOrNil(ev.Item.Type)
		} else {
			out["item_type"] = nil
		}

	case runtime.RawTypeTextDone:
		out["text"] = ev.Text
		out["content_index"] = ev.ContentIndex
		out["item_id"] = stringOrNil(ev.ItemID)

	default:
		// Forward-compatible passthrough: unlisted sub-kinds keep their
		// base fields and nothing else.
	}

	return out
}

func projectAgentUpdated(ev *runtime.AgentUpdatedEvent) OutputEvent {
	agent := ev.NewAgent
	out := OutputEvent{
		"type":           "agent_updated",
		"agent_name":     nil,
		"tools_count":    0,
		"handoffs_count": 0,
	}
	if agent == nil {
		out["agent_instructions"] = nil
		out["model"] = nil
		return out
	}

	instructions := agent.Instructions
	if agent.HasDynamicInstructions() {
		instructions = "Dynamic instructions"
	}

	out["agent_name"] = stringOrNil(agent.Name)
	out["agent_instructions"] = instructions
	out["model"] = stringOrNil(agent.Model)
	out["tools_count"] = len(agent.Tools)
	out["handoffs_count"] = len(agent.Handoffs)
	return out
}

func projectUnknown(ev runtime.Event) OutputEvent {
	out := OutputEvent{
		"type":        "unknown_event",
		"event_class": fmt.Sprintf("%T", ev),
		"data":        nil,
	}
	if ev != nil {
		out["data"] = Truncate(fmt.Sprintf("%+v", ev))
	}
	return out
}

// stringOrNil renders an optional string field: absent becomes null instead
// of an empty string on the wire.
func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func intOrNil(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
