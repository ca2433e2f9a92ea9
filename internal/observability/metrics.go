// Package observability exposes Prometheus collectors reporting agent
// endpoint activity.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the HTTP layer records into.
type Metrics struct {
	runsTotal         *prometheus.CounterVec
	streamEventsTotal *prometheus.CounterVec
	streamFrames      *prometheus.CounterVec
	activeStreams     prometheus.Gauge
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// DefaultMetrics returns the package-level metrics instance registered with
// the global Prometheus registry. Collectors are created once to avoid
// duplicate registration panics when the router is built multiple times.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs a Metrics instance on the given registerer.
// Registration errors panic, mirroring promauto semantics, so configuration
// bugs surface early. Tests should pass a fresh registry.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cogniserve",
			Subsystem: "agent",
			Name:      "runs_total",
			Help:      "Agent run invocations by agent and outcome.",
		},
		[]string{"agent", "mode", "outcome"},
	)
	streamEventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cogniserve",
			Subsystem: "agent",
			Name:      "stream_events_total",
			Help:      "Runtime events observed on streamed runs by output type.",
		},
		[]string{"agent", "type"},
	)
	streamFrames := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cogniserve",
			Subsystem: "agent",
			Name:      "stream_terminal_frames_total",
			Help:      "Terminal SSE frames emitted, split by success and error.",
		},
		[]string{"agent", "kind"},
	)
	activeStreams := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cogniserve",
			Subsystem: "agent",
			Name:      "active_streams",
			Help:      "Streams currently open.",
		},
	)

	reg.MustRegister(runsTotal, streamEventsTotal, streamFrames, activeStreams)

	return &Metrics{
		runsTotal:         runsTotal,
		streamEventsTotal: streamEventsTotal,
		streamFrames:      streamFrames,
		activeStreams:     activeStreams,
	}
}

// ObserveRun records one run invocation.
func (m *Metrics) ObserveRun(agent, mode string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.runsTotal.WithLabelValues(agent, mode, outcome).Inc()
}

// ObserveStreamEvent records one normalized event on a streamed run.
func (m *Metrics) ObserveStreamEvent(agent, eventType string) {
	if m == nil {
		return
	}
	m.streamEventsTotal.WithLabelValues(agent, eventType).Inc()
}

// ObserveTerminalFrame records the terminal frame kind of a finished stream.
func (m *Metrics) ObserveTerminalFrame(agent, kind string) {
	if m == nil {
		return
	}
	m.streamFrames.WithLabelValues(agent, kind).Inc()
}

// StreamOpened marks a stream as active; the returned func marks it closed
// and is safe to defer.
func (m *Metrics) StreamOpened() func() {
	if m == nil {
		return func() {}
	}
	m.activeStreams.Inc()
	return func() { m.activeStreams.Dec() }
}
