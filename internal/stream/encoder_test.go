package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ahmad2b/cogniserve/internal/logging"
	"github.com/ahmad2b/cogniserve/internal/runtime"
)

// flushRecorder counts flushes so tests can verify per-frame flushing.
type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() { f.flushes++ }

func testLogger() *logging.Logger {
	return logging.New(&bytes.Buffer{}, logging.ERROR)
}

func decodeFrames(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var frames []map[string]any
	for _, chunk := range strings.Split(raw, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" || strings.HasPrefix(chunk, ":") {
			continue
		}
		payload, found := strings.CutPrefix(chunk, "data: ")
		if !found {
			t.Fatalf("frame without data prefix: %q", chunk)
		}
		var frame map[string]any
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			t.Fatalf("invalid frame JSON %q: %v", payload, err)
		}
		frames = append(frames, frame)
	}
	return frames
}

func TestEncoderWritesFramesInOrderAndFlushes(t *testing.T) {
	rec := &flushRecorder{}
	enc := NewEncoder(rec, testLogger())

	deltas := []string{"Hel", "lo", "!"}
	for _, d := range deltas {
		ev := Project(&runtime.RawResponseEvent{Type: runtime.RawTypeTextDelta, Delta: d})
		if err := enc.Write(ev); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := enc.Complete(&runtime.Result{FinalOutput: "Hello!", CurrentTurn: 1}, ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	frames := decodeFrames(t, rec.String())
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	for i, d := range deltas {
		if frames[i]["delta"] != d {
			t.Errorf("frame %d delta = %v, want %q", i, frames[i]["delta"], d)
		}
	}
	terminal := frames[3]
	if terminal["type"] != "stream_complete" || terminal["final_output"] != "Hello!" {
		t.Errorf("terminal frame = %v", terminal)
	}
	if rec.flushes < 4 {
		t.Errorf("expected a flush per frame, got %d", rec.flushes)
	}
}

func TestEncoderExactlyOneTerminalFrame(t *testing.T) {
	rec := &flushRecorder{}
	enc := NewEncoder(rec, testLogger())

	if err := enc.Complete(&runtime.Result{FinalOutput: "done"}, ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	// Further terminal writes and event writes must be dropped.
	if err := enc.Fail(errors.New("boom"), ""); err != nil {
		t.Fatalf("Fail after Complete: %v", err)
	}
	if err := enc.Complete(nil, ""); err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	_ = enc.Write(OutputEvent{"type": "raw_response"})

	frames := decodeFrames(t, rec.String())
	if len(frames) != 1 {
		t.Fatalf("expected exactly one frame, got %d", len(frames))
	}
	if frames[0]["type"] != "stream_complete" {
		t.Errorf("terminal type = %v", frames[0]["type"])
	}
	if !enc.TerminalWritten() {
		t.Error("TerminalWritten should report true")
	}
}

func TestEncoderEmptyStreamStillTerminates(t *testing.T) {
	rec := &flushRecorder{}
	enc := NewEncoder(rec, testLogger())

	if err := enc.Complete(nil, ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	frames := decodeFrames(t, rec.String())
	if len(frames) != 1 || frames[0]["type"] != "stream_complete" {
		t.Fatalf("expected a lone terminal frame, got %v", frames)
	}
	if frames[0]["final_output"] != nil {
		t.Errorf("final_output = %v, want null", frames[0]["final_output"])
	}
}

func TestEncoderFailFrame(t *testing.T) {
	rec := &flushRecorder{}
	enc := NewEncoder(rec, testLogger())

	if err := enc.Fail(errors.New("runtime exploded"), "sess_1"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	frames := decodeFrames(t, rec.String())
	if len(frames) != 1 {
		t.Fatalf("expected one frame, got %d", len(frames))
	}
	if frames[0]["type"] != "error" || frames[0]["message"] != "runtime exploded" {
		t.Errorf("error frame = %v", frames[0])
	}
	if frames[0]["session_id"] != "sess_1" {
		t.Errorf("session_id = %v", frames[0]["session_id"])
	}
}

func TestEncoderSkipsUnserializableEvent(t *testing.T) {
	rec := &flushRecorder{}
	enc := NewEncoder(rec, testLogger())

	bad := OutputEvent{"type": "raw_response", "payload": make(chan int)}
	if err := enc.Write(bad); err == nil {
		t.Error("expected serialization error")
	}

	// The stream must keep accepting well-formed events.
	if err := enc.Write(OutputEvent{"type": "raw_response", "event_type": "x"}); err != nil {
		t.Fatalf("Write after bad event: %v", err)
	}
	if err := enc.Complete(nil, ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	frames := decodeFrames(t, rec.String())
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames (good event + terminal), got %d", len(frames))
	}
}

func TestEncoderCommentHeartbeat(t *testing.T) {
	rec := &flushRecorder{}
	enc := NewEncoder(rec, testLogger())

	if err := enc.Comment("heartbeat"); err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if !strings.Contains(rec.String(), ": heartbeat\n\n") {
		t.Errorf("expected SSE comment, got %q", rec.String())
	}
	if frames := decodeFrames(t, rec.String()); len(frames) != 0 {
		t.Errorf("comments must not decode as data frames")
	}
}

func TestEncoderUsageInTerminalFrame(t *testing.T) {
	rec := &flushRecorder{}
	enc := NewEncoder(rec, testLogger())

	res := &runtime.Result{
		FinalOutput: "ok",
		CurrentTurn: 2,
		Usage:       &runtime.Usage{Requests: 1, InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
		ResponseID:  "resp_9",
	}
	if err := enc.Complete(res, ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	frames := decodeFrames(t, rec.String())
	usage, ok := frames[0]["usage"].(map[string]any)
	if !ok {
		t.Fatalf("usage missing: %v", frames[0])
	}
	if usage["total_tokens"] != float64(15) || usage["requests"] != float64(1) {
		t.Errorf("usage = %v", usage)
	}
	if frames[0]["response_id"] != "resp_9" {
		t.Errorf("response_id = %v", frames[0]["response_id"])
	}
}
