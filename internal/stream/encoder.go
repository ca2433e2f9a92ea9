package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ahmad2b/cogniserve/internal/logging"
	"github.com/ahmad2b/cogniserve/internal/runtime"
)

// Encoder serializes normalized events as SSE frames (`data: <json>\n\n`),
// flushing after every frame so each event reaches the client before the
// next one is pulled from the runtime. It guarantees at most one terminal
// frame per stream: once Complete or Fail has been written, further writes
// are dropped.
//
// An Encoder belongs to a single request goroutine and is not safe for
// concurrent use.
type Encoder struct {
	w        io.Writer
	flusher  http.Flusher
	logger   *logging.Logger
	terminal bool
}

// NewEncoder wraps w. When w implements http.Flusher every frame is flushed
// as it is written.
func NewEncoder(w io.Writer, logger *logging.Logger) *Encoder {
	flusher, _ := w.(http.Flusher)
	if logger == nil {
		logger = logging.NewComponentLogger("StreamEncoder")
	}
	return &Encoder{
		w:       w,
		flusher: flusher,
		logger:  logger,
	}
}

// Write emits one event frame. A record that fails to serialize is logged
// and skipped; the stream keeps going.
func (e *Encoder) Write(ev OutputEvent) error {
	if e.terminal {
		e.logger.Warn("dropping event written after terminal frame")
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		e.logger.Error("failed to serialize event: %v", err)
		return err
	}
	return e.writeFrame(data)
}

// Comment emits an SSE comment line, used as a heartbeat on idle streams.
func (e *Encoder) Comment(text string) error {
	if e.terminal {
		return nil
	}
	if _, err := fmt.Fprintf(e.w, ": %s\n\n", text); err != nil {
		return err
	}
	e.flush()
	return nil
}

// Complete writes the success terminal frame. It is a no-op when a terminal
// frame was already written.
func (e *Encoder) Complete(res *runtime.Result, sessionID string) error {
	if e.terminal {
		return nil
	}
	frame := OutputEvent{
		"type":         "stream_complete",
		"final_output": nil,
		"current_turn": 0,
		"usage":        nil,
		"response_id":  nil,
	}
	if res != nil {
		frame["final_output"] = res.FinalOutput
		frame["current_turn"] = res.CurrentTurn
		if res.Usage != nil {
			frame["usage"] = res.Usage
		}
		frame["response_id"] = stringOrNil(res.ResponseID)
	}
	if sessionID != "" {
		frame["session_id"] = sessionID
	}
	return e.writeTerminal(frame)
}

// Fail writes the error terminal frame. Errors that occur after streaming
// has begun are reported in-band through this frame because the HTTP status
// line is already committed.
func (e *Encoder) Fail(err error, sessionID string) error {
	if e.terminal {
		return nil
	}
	message := "stream failed"
	if err != nil {
		message = err.Error()
	}
	frame := OutputEvent{
		"type":    "error",
		"message": message,
	}
	if sessionID != "" {
		frame["session_id"] = sessionID
	}
	return e.writeTerminal(frame)
}

// TerminalWritten reports whether a terminal frame has been emitted.
func (e *Encoder) TerminalWritten() bool { return e.terminal }

func (e *Encoder) writeTerminal(frame OutputEvent) error {
	data, err := json.Marshal(frame)
	if err != nil {
		// Fall back to a minimal error frame; the stream must still end
		// with a terminal record.
		e.logger.Error("failed to serialize terminal frame: %v", err)
		data = []byte(`{"type":"error","message":"failed to serialize terminal frame"}`)
	}
	e.terminal = true
	return e.writeFrame(data)
}

func (e *Encoder) writeFrame(data []byte) error {
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return err
	}
	e.flush()
	return nil
}

func (e *Encoder) flush() {
	if e.flusher != nil {
		e.flusher.Flush()
	}
}
