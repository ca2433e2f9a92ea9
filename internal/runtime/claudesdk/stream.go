package claudesdk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cexll/agentsdk-go/pkg/api"

	"github.com/ahmad2b/cogniserve/internal/logging"
	"github.com/ahmad2b/cogniserve/internal/runtime"
)

// stream pulls SDK events, translates each into zero or more normalized
// runtime events, and exposes them on an unbuffered channel so the consumer
// paces delivery.
type stream struct {
	events  chan runtime.Event
	cancel  context.CancelFunc
	release func()
	logger  *logging.Logger

	mu     sync.Mutex
	result *runtime.Result
	err    error
	done   bool
}

func newStream(ctx context.Context, source <-chan api.StreamEvent, release func(), logger *logging.Logger) *stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &stream{
		events:  make(chan runtime.Event),
		cancel:  cancel,
		release: release,
		logger:  logger,
	}
	go s.pump(ctx, source)
	return s
}

func (s *stream) Events() <-chan runtime.Event { return s.events }

func (s *stream) Result() (*runtime.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		return nil, errors.New("stream still in progress")
	}
	return s.result, s.err
}

func (s *stream) Close() {
	s.cancel()
	s.release()
}

func (s *stream) pump(ctx context.Context, source <-chan api.StreamEvent) {
	defer close(s.events)

	tr := newTranslator()
	for {
		select {
		case sdkEv, open := <-source:
			if !open {
				s.finish(tr.result(), tr.failure())
				return
			}
			for _, ev := range tr.translate(sdkEv) {
				select {
				case s.events <- ev:
				case <-ctx.Done():
					s.finish(nil, ctx.Err())
					return
				}
			}
			if tr.failure() != nil {
				// Drain nothing further; the SDK reports errors terminally.
				s.finish(nil, tr.failure())
				return
			}

		case <-ctx.Done():
			s.logger.Debug("stream cancelled: %v", ctx.Err())
			s.finish(nil, ctx.Err())
			return
		}
	}
}

func (s *stream) finish(result *runtime.Result, err error) {
	s.mu.Lock()
	s.result = result
	s.err = err
	s.done = true
	s.mu.Unlock()
}

// translator folds the SDK's Anthropic-style event feed into normalized
// runtime events, tracking sequence numbers, turn count, usage and the
// final assistant text along the way.
type translator struct {
	seq         int
	currentTurn int
	messageID   string
	responseID  string
	text        strings.Builder
	finalText   string
	usage       runtime.Usage
	err         error

	// toolNames remembers tool_use block names per tool use id so the
	// result event can name the tool that produced it.
	toolNames map[string]string
	toolArgs  map[string]string
}

func newTranslator() *translator {
	return &translator{
		toolNames: make(map[string]string),
		toolArgs:  make(map[string]string),
	}
}

func (t *translator) nextSeq() *int {
	n := t.seq
	t.seq++
	return &n
}

// translate maps one SDK event to its normalized equivalents. Events with
// no client-visible meaning (pings, iteration markers) update internal
// state and produce nothing.
func (t *translator) translate(ev api.StreamEvent) []runtime.Event {
	switch ev.Type {
	case api.EventMessageStart:
		t.text.Reset()
		if ev.Message != nil {
			t.messageID = ev.Message.ID
			t.responseID = ev.Message.ID
			t.recordUsage(ev.Message.Usage)
		}
		return []runtime.Event{&runtime.RawResponseEvent{
			Type:           runtime.RawTypeResponseCreated,
			SequenceNumber: t.nextSeq(),
			Response:       &runtime.ResponseStatus{ID: t.messageID, Status: "in_progress"},
		}}

	case api.EventContentBlockStart:
		raw := &runtime.RawResponseEvent{
			Type:           runtime.RawTypeContentPartAdded,
			SequenceNumber: t.nextSeq(),
			ItemID:         t.messageID,
		}
		if ev.Index != nil {
			raw.ContentIndex = *ev.Index
		}
		if ev.ContentBlock != nil && ev.ContentBlock.Type == "tool_use" {
			t.toolNames[ev.ContentBlock.ID] = ev.ContentBlock.Name
			raw.Type = runtime.RawTypeOutputItemAdded
			raw.Item = &runtime.OutputItem{
				Type:   "function_call",
				Name:   ev.ContentBlock.Name,
				CallID: ev.ContentBlock.ID,
			}
		}
		return []runtime.Event{raw}

	case api.EventContentBlockDelta:
		if ev.Delta == nil {
			return nil
		}
		switch ev.Delta.Type {
		case "text_delta":
			t.text.WriteString(ev.Delta.Text)
			raw := &runtime.RawResponseEvent{
				Type:           runtime.RawTypeTextDelta,
				SequenceNumber: t.nextSeq(),
				Delta:          ev.Delta.Text,
				ItemID:         t.messageID,
			}
			if ev.Index != nil {
				raw.ContentIndex = *ev.Index
			}
			return []runtime.Event{raw}
		case "input_json_delta":
			fragment := string(ev.Delta.PartialJSON)
			t.toolArgs[ev.ToolUseID] += fragment
			return []runtime.Event{&runtime.RawResponseEvent{
				Type:           runtime.RawTypeFunctionArgsDelta,
				SequenceNumber: t.nextSeq(),
				Delta:          fragment,
				CallID:         ev.ToolUseID,
			}}
		}
		return nil

	case api.EventContentBlockStop:
		raw := &runtime.RawResponseEvent{
			Type:           runtime.RawTypeContentPartDone,
			SequenceNumber: t.nextSeq(),
			ItemID:         t.messageID,
		}
		if ev.Index != nil {
			raw.ContentIndex = *ev.Index
		}
		return []runtime.Event{raw}

	case api.EventMessageDelta:
		t.recordUsage(ev.Usage)
		return nil

	case api.EventMessageStop:
		t.finalText = t.text.String()
		return []runtime.Event{&runtime.RawResponseEvent{
			Type:           runtime.RawTypeResponseCompleted,
			SequenceNumber: t.nextSeq(),
			Response:       &runtime.ResponseStatus{ID: t.messageID, Status: "completed"},
		}}

	case api.EventIterationStart:
		if ev.Iteration != nil {
			t.currentTurn = *ev.Iteration
		} else {
			t.currentTurn++
		}
		return nil

	case api.EventToolExecutionStart:
		return []runtime.Event{&runtime.RunItemEvent{
			Name: runtime.ItemToolCalled,
			Item: &runtime.RunItem{
				Type:      "tool_call_item",
				ToolName:  ev.Name,
				Arguments: t.toolArgs[ev.ToolUseID],
				CallID:    ev.ToolUseID,
			},
		}}

	case api.EventToolExecutionResult:
		name := ev.Name
		if name == "" {
			name = t.toolNames[ev.ToolUseID]
		}
		return []runtime.Event{&runtime.RunItemEvent{
			Name: runtime.ItemToolOutput,
			Item: &runtime.RunItem{
				Type:     "tool_call_output_item",
				ToolName: name,
				Output:   renderOutput(ev.Output),
				CallID:   ev.ToolUseID,
			},
		}}

	case api.EventError:
		t.err = errors.New(renderOutput(ev.Output))
		return nil
	}

	// ping, agent_start/stop, iteration_stop, tool_execution_output and any
	// future extension events carry no client-visible payload.
	return nil
}

func (t *translator) recordUsage(u *api.Usage) {
	if u == nil {
		return
	}
	if u.InputTokens > 0 {
		t.usage.InputTokens = u.InputTokens
	}
	if u.OutputTokens > 0 {
		t.usage.OutputTokens = u.OutputTokens
	}
	t.usage.TotalTokens = t.usage.InputTokens + t.usage.OutputTokens
	t.usage.Requests = 1
}

func (t *translator) failure() error { return t.err }

func (t *translator) result() *runtime.Result {
	turn := t.currentTurn
	if turn == 0 {
		turn = 1
	}
	usage := t.usage
	return &runtime.Result{
		FinalOutput: t.finalText,
		CurrentTurn: turn,
		Usage:       &usage,
		ResponseID:  t.responseID,
	}
}

func renderOutput(out any) string {
	if out == nil {
		return ""
	}
	if s, ok := out.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", out)
}
