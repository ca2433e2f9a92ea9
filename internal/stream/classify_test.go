package stream

import (
	"testing"

	"github.com/ahmad2b/cogniserve/internal/runtime"
)

// telemetryEvent simulates an upstream event variant this server predates.
type telemetryEvent struct{}

func (telemetryEvent) Kind() runtime.Kind { return runtime.Kind("telemetry") }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   runtime.Event
		want Category
	}{
		{"raw response", &runtime.RawResponseEvent{Type: runtime.RawTypeTextDelta}, CategoryRawResponse},
		{"run item", &runtime.RunItemEvent{Name: runtime.ItemToolCalled}, CategoryRunItem},
		{"agent updated", &runtime.AgentUpdatedEvent{}, CategoryAgentUpdated},
		{"unrecognized kind", telemetryEvent{}, CategoryUnknown},
		{"nil event", nil, CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.ev); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
