package stream

import "github.com/ahmad2b/cogniserve/internal/runtime"

// Category is the coarse classification of a runtime event.
type Category string

const (
	CategoryRawResponse  Category = "raw_response"
	CategoryRunItem      Category = "run_item"
	CategoryAgentUpdated Category = "agent_updated"
	CategoryUnknown      Category = "unknown"
)

// Classify maps a runtime event to its category by declared kind. Events the
// server does not recognize classify as unknown; Classify never fails.
func Classify(ev runtime.Event) Category {
	if ev == nil {
		return CategoryUnknown
	}
	switch ev.Kind() {
	case runtime.KindRawResponse:
		return CategoryRawResponse
	case runtime.KindRunItem:
		return CategoryRunItem
	case runtime.KindAgentUpdated:
		return CategoryAgentUpdated
	default:
		return CategoryUnknown
	}
}
