// Package runtimetest provides scripted Runner and Stream implementations
// for exercising the server without a live agent runtime.
package runtimetest

import (
	"context"
	"sync"

	"github.com/ahmad2b/cogniserve/internal/runtime"
)

// Runner replays a scripted outcome. The zero value runs successfully with
// no events and a nil result.
type Runner struct {
	// RunFunc, when set, overrides the scripted sync behavior.
	RunFunc func(ctx context.Context, agent *runtime.AgentConfig, req runtime.Request) (*runtime.Result, error)

	// Events are replayed in order on the streamed path.
	Events []runtime.Event
	// Result is returned after all events are delivered.
	Result *runtime.Result
	// Err, when set, is reported as the stream's terminal error.
	Err error
	// RunErr, when set, fails the sync path.
	RunErr error
	// StreamStartErr, when set, fails RunStreamed before any event flows.
	StreamStartErr error

	mu         sync.Mutex
	lastReq    *runtime.Request
	lastStream *Stream
}

func (r *Runner) Run(ctx context.Context, agent *runtime.AgentConfig, req runtime.Request) (*runtime.Result, error) {
	r.recordRequest(req)
	if r.RunFunc != nil {
		return r.RunFunc(ctx, agent, req)
	}
	if r.RunErr != nil {
		return nil, r.RunErr
	}
	return r.Result, nil
}

func (r *Runner) RunStreamed(ctx context.Context, agent *runtime.AgentConfig, req runtime.Request) (runtime.Stream, error) {
	r.recordRequest(req)
	if r.StreamStartErr != nil {
		return nil, r.StreamStartErr
	}
	s := NewStream(ctx, r.Events, r.Result, r.Err)
	r.mu.Lock()
	r.lastStream = s
	r.mu.Unlock()
	return s, nil
}

func (r *Runner) recordRequest(req runtime.Request) {
	r.mu.Lock()
	r.lastReq = &req
	r.mu.Unlock()
}

// LastRequest returns the most recent request seen by either path.
func (r *Runner) LastRequest() *runtime.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReq
}

// LastStream returns the stream handed out by the most recent RunStreamed
// call, or nil.
func (r *Runner) LastStream() *Stream {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStream
}

// Stream replays scripted events on an unbuffered channel so consumers pull
// strictly one event at a time, mirroring a live feed.
type Stream struct {
	events chan runtime.Event
	cancel context.CancelFunc

	mu     sync.Mutex
	result *runtime.Result
	err    error
	closed bool
}

// NewStream starts delivering events immediately. Delivery stops when ctx is
// cancelled or Close is called.
func NewStream(ctx context.Context, events []runtime.Event, result *runtime.Result, err error) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		events: make(chan runtime.Event),
		cancel: cancel,
		result: result,
		err:    err,
	}
	go func() {
		defer close(s.events)
		for _, ev := range events {
			select {
			case s.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return s
}

func (s *Stream) Events() <-chan runtime.Event { return s.events }

func (s *Stream) Result() (*runtime.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

func (s *Stream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Closed reports whether Close was called, letting tests assert that the
// server releases the feed on disconnect.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
