package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahmad2b/cogniserve/internal/logging"
	"github.com/ahmad2b/cogniserve/internal/observability"
	"github.com/ahmad2b/cogniserve/internal/runtime"
	"github.com/ahmad2b/cogniserve/internal/session"
	"github.com/ahmad2b/cogniserve/internal/stream"
)

// heartbeatInterval paces SSE comment keepalives while a stream is idle.
const heartbeatInterval = 30 * time.Second

// AgentHandler binds one agent configuration to the standardized run,
// stream and info operations, plus the session transcript endpoints.
type AgentHandler struct {
	name     string
	prefix   string
	agent    *runtime.AgentConfig
	runner   runtime.Runner
	sessions *session.Store
	metrics  *observability.Metrics
	logger   *logging.Logger
}

// NewAgentHandler creates the handler for one bound agent. sessions and
// metrics may be nil, disabling transcripts and metric collection.
func NewAgentHandler(name, prefix string, agent *runtime.AgentConfig, runner runtime.Runner, sessions *session.Store, metrics *observability.Metrics) *AgentHandler {
	return &AgentHandler{
		name:     name,
		prefix:   prefix,
		agent:    agent,
		runner:   runner,
		sessions: sessions,
		metrics:  metrics,
		logger:   logging.NewComponentLogger(name),
	}
}

// Register mounts the agent endpoints on the router at the handler's prefix.
func (h *AgentHandler) Register(r gin.IRouter) {
	group := r.Group(h.prefix)
	group.POST("/run", h.HandleRun)
	group.POST("/stream", h.HandleStream)
	group.GET("/info", h.HandleInfo)
	if h.sessions != nil {
		group.GET("/session/:id", h.HandleSessionMessages)
		group.DELETE("/session/:id", h.HandleClearSession)
	}
}

// Endpoints returns the canonical endpoint paths for this agent.
func (h *AgentHandler) Endpoints() map[string]string {
	return map[string]string{
		"run":    h.prefix + "/run",
		"stream": h.prefix + "/stream",
		"info":   h.prefix + "/info",
	}
}

// Name returns the human-readable agent name used in directories.
func (h *AgentHandler) Name() string { return h.name }

// Prefix returns the path prefix the agent is mounted on.
func (h *AgentHandler) Prefix() string { return h.prefix }

func (h *AgentHandler) bindRequest(c *gin.Context) (*AgentRequest, bool) {
	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return nil, false
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
		return nil, false
	}
	if req.MaxTurns < 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "max_turns must be positive"})
		return nil, false
	}
	return &req, true
}

func (h *AgentHandler) runRequest(req *AgentRequest) runtime.Request {
	maxTurns := req.MaxTurns
	if maxTurns == 0 {
		maxTurns = runtime.DefaultMaxTurns
	}
	return runtime.Request{
		Message:   req.Message,
		MaxTurns:  maxTurns,
		Context:   req.Context,
		SessionID: req.SessionID,
	}
}

// HandleRun executes the agent synchronously. Runtime failures never become
// HTTP errors; they are reported as success=false in the response body.
func (h *AgentHandler) HandleRun(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	h.logger.Info("running %s, message: %s", h.name, stream.Truncate(req.Message))
	h.recordSession(req.SessionID, "user", req.Message)

	result, err := h.runner.Run(c.Request.Context(), h.agent, h.runRequest(req))
	if err != nil {
		h.logger.Error("run failed: %v", err)
		h.metrics.ObserveRun(h.name, "run", false)
		c.JSON(http.StatusOK, AgentResponse{
			FinalOutput: nil,
			Success:     false,
			Error:       err.Error(),
			SessionID:   req.SessionID,
		})
		return
	}

	h.metrics.ObserveRun(h.name, "run", true)
	resp := AgentResponse{Success: true, SessionID: req.SessionID}
	if result != nil {
		resp.FinalOutput = result.FinalOutput
		resp.Usage = result.Usage
		resp.ResponseID = result.ResponseID
		h.recordSession(req.SessionID, "assistant", result.FinalOutput)
	}
	c.JSON(http.StatusOK, resp)
}

// HandleStream executes the agent with a live event feed and relays each
// event as one SSE frame. Events are pulled strictly one at a time and
// flushed before the next pull, preserving runtime order end to end.
func (h *AgentHandler) HandleStream(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	h.recordSession(req.SessionID, "user", req.Message)

	feed, err := h.runner.RunStreamed(ctx, h.agent, h.runRequest(req))
	if err != nil {
		// Nothing has been written yet, so a real HTTP status is still
		// possible.
		h.logger.Error("failed to start stream: %v", err)
		h.metrics.ObserveRun(h.name, "stream", false)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	defer feed.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	closeStream := h.metrics.StreamOpened()
	defer closeStream()

	enc := stream.NewEncoder(c.Writer, h.logger)
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	events := feed.Events()
	for events != nil {
		select {
		case ev, open := <-events:
			if !open {
				events = nil
				continue
			}
			out := stream.Project(ev)
			if err := enc.Write(out); err != nil {
				// One bad event must not kill the stream.
				continue
			}
			if typ, _ := out["type"].(string); typ != "" {
				h.metrics.ObserveStreamEvent(h.name, typ)
			}

		case <-heartbeat.C:
			if err := enc.Comment("heartbeat"); err != nil {
				h.logger.Warn("heartbeat write failed: %v", err)
				return
			}

		case <-ctx.Done():
			// Client went away: stop pulling and release the runtime feed.
			h.logger.Info("client disconnected, releasing stream")
			h.metrics.ObserveTerminalFrame(h.name, "disconnect")
			return
		}
	}

	result, runErr := feed.Result()
	if runErr != nil {
		h.logger.Error("stream failed: %v", runErr)
		h.metrics.ObserveRun(h.name, "stream", false)
		h.metrics.ObserveTerminalFrame(h.name, "error")
		if err := enc.Fail(runErr, req.SessionID); err != nil {
			h.logger.Error("failed to write error frame: %v", err)
		}
		return
	}

	h.metrics.ObserveRun(h.name, "stream", true)
	h.metrics.ObserveTerminalFrame(h.name, "stream_complete")
	if result != nil {
		h.recordSession(req.SessionID, "assistant", result.FinalOutput)
	}
	if err := enc.Complete(result, req.SessionID); err != nil {
		h.logger.Error("failed to write completion frame: %v", err)
	}
}

// HandleInfo reports the bound agent configuration. It only fails when the
// configuration itself is malformed, which indicates a wiring bug.
func (h *AgentHandler) HandleInfo(c *gin.Context) {
	if h.agent == nil || h.agent.Name == "" {
		h.logger.Error("misconfigured agent behind %s", h.prefix)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "agent configuration is invalid"})
		return
	}

	instructions := h.agent.Instructions
	if h.agent.HasDynamicInstructions() {
		instructions = "Dynamic instructions (function-based)"
	}

	c.JSON(http.StatusOK, AgentInfo{
		Name:          h.name,
		AgentName:     h.agent.Name,
		Instructions:  instructions,
		Model:         h.agent.Model,
		ToolsCount:    len(h.agent.Tools),
		HandoffsCount: len(h.agent.Handoffs),
		Endpoints:     h.Endpoints(),
	})
}

// HandleSessionMessages returns the transcript recorded for one session.
func (h *AgentHandler) HandleSessionMessages(c *gin.Context) {
	sessionID := c.Param("id")
	msgs, ok := h.sessions.Messages(sessionID, 0)
	if !ok {
		c.JSON(http.StatusOK, SessionMessagesResponse{
			SessionID: sessionID,
			Messages:  []session.Message{},
			Success:   false,
			Error:     "session not found",
		})
		return
	}
	c.JSON(http.StatusOK, SessionMessagesResponse{
		SessionID:    sessionID,
		Messages:     msgs,
		MessageCount: len(msgs),
		Success:      true,
	})
}

// HandleClearSession drops the transcript for one session.
func (h *AgentHandler) HandleClearSession(c *gin.Context) {
	sessionID := c.Param("id")
	if h.sessions.Clear(sessionID) {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("session %s cleared", sessionID), "success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("session %s not found", sessionID), "success": false})
}

func (h *AgentHandler) recordSession(sessionID, role string, content any) {
	if h.sessions == nil || sessionID == "" {
		return
	}
	h.sessions.Append(sessionID, session.Message{Role: role, Content: content})
}
