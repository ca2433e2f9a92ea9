// Package claudesdk adapts the agentsdk-go runtime to the Runner boundary.
// It owns runtime construction per agent and translates the SDK's
// Anthropic-style event stream into the normalized runtime events the
// server projects to clients.
package claudesdk

import (
	"context"
	"fmt"
	"sync"

	"github.com/cexll/agentsdk-go/pkg/api"
	"github.com/cexll/agentsdk-go/pkg/model"

	"github.com/ahmad2b/cogniserve/internal/config"
	"github.com/ahmad2b/cogniserve/internal/logging"
	"github.com/ahmad2b/cogniserve/internal/runtime"
)

// sdkRuntime is the slice of api.Runtime the adapter depends on.
type sdkRuntime interface {
	Run(ctx context.Context, req api.Request) (*api.Response, error)
	RunStream(ctx context.Context, req api.Request) (<-chan api.StreamEvent, error)
	Close() error
}

type runtimeFactory func(ctx context.Context, instructions, modelName string, maxTurns int) (sdkRuntime, error)

// Runner executes agents through agentsdk-go. Runtimes for agents with
// static instructions are built once and reused; dynamic instructions and
// per-request turn overrides get a fresh runtime because the SDK fixes the
// system prompt and iteration cap at construction time.
type Runner struct {
	cfg        config.RuntimeConfig
	logger     *logging.Logger
	newRuntime runtimeFactory

	mu    sync.Mutex
	cache map[string]sdkRuntime
}

// NewRunner creates a Runner on the given runtime configuration.
func NewRunner(cfg config.RuntimeConfig) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger("ClaudeSDK"),
		cache:  make(map[string]sdkRuntime),
	}
	r.newRuntime = r.buildRuntime
	return r
}

func (r *Runner) buildRuntime(ctx context.Context, instructions, modelName string, maxTurns int) (sdkRuntime, error) {
	var factory api.ModelFactory
	switch r.cfg.Provider {
	case "openai":
		factory = &model.OpenAIProvider{
			APIKey:    r.cfg.APIKey,
			BaseURL:   r.cfg.BaseURL,
			ModelName: modelName,
			MaxTokens: r.cfg.MaxTokens,
		}
	default: // anthropic
		factory = &model.AnthropicProvider{
			APIKey:    r.cfg.APIKey,
			BaseURL:   r.cfg.BaseURL,
			ModelName: modelName,
			MaxTokens: r.cfg.MaxTokens,
		}
	}

	rt, err := api.New(ctx, api.Options{
		ProjectRoot:   r.cfg.Workspace,
		ModelFactory:  factory,
		SystemPrompt:  instructions,
		MaxIterations: maxTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("create agent runtime: %w", err)
	}
	return rt, nil
}

// acquire returns a runtime for the run plus a release func. Cacheable
// runtimes survive across requests; one-off runtimes are closed on release.
func (r *Runner) acquire(ctx context.Context, agent *runtime.AgentConfig, req runtime.Request) (sdkRuntime, func(), error) {
	instructions, err := agent.ResolveInstructions(ctx, req.Context)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve instructions: %w", err)
	}

	maxTurns := req.MaxTurns
	if maxTurns <= 0 {
		maxTurns = r.cfg.MaxTurns
	}

	cacheable := !agent.HasDynamicInstructions() && maxTurns == r.cfg.MaxTurns
	if !cacheable {
		rt, err := r.newRuntime(ctx, instructions, agent.Model, maxTurns)
		if err != nil {
			return nil, nil, err
		}
		return rt, func() {
			if err := rt.Close(); err != nil {
				r.logger.Warn("failed to close runtime: %v", err)
			}
		}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rt, ok := r.cache[agent.Name]; ok {
		return rt, func() {}, nil
	}
	rt, err := r.newRuntime(ctx, instructions, agent.Model, maxTurns)
	if err != nil {
		return nil, nil, err
	}
	r.cache[agent.Name] = rt
	return rt, func() {}, nil
}

func (r *Runner) sdkRequest(req runtime.Request) api.Request {
	return api.Request{
		Prompt:    req.Message,
		SessionID: req.SessionID,
		Metadata:  req.Context,
	}
}

// Run executes the agent to completion and maps the SDK response to a
// Result.
func (r *Runner) Run(ctx context.Context, agent *runtime.AgentConfig, req runtime.Request) (*runtime.Result, error) {
	rt, release, err := r.acquire(ctx, agent, req)
	if err != nil {
		return nil, err
	}
	defer release()

	resp, err := rt.Run(ctx, r.sdkRequest(req))
	if err != nil {
		return nil, err
	}

	result := &runtime.Result{ResponseID: resp.RequestID}
	if resp.Result != nil {
		result.FinalOutput = resp.Result.Output
		result.CurrentTurn = 1
		result.Usage = &runtime.Usage{
			Requests:     1,
			InputTokens:  resp.Result.Usage.InputTokens,
			OutputTokens: resp.Result.Usage.OutputTokens,
			TotalTokens:  resp.Result.Usage.TotalTokens,
		}
	}
	return result, nil
}

// RunStreamed starts the agent and returns a live feed of normalized
// events.
func (r *Runner) RunStreamed(ctx context.Context, agent *runtime.AgentConfig, req runtime.Request) (runtime.Stream, error) {
	rt, release, err := r.acquire(ctx, agent, req)
	if err != nil {
		return nil, err
	}

	source, err := rt.RunStream(ctx, r.sdkRequest(req))
	if err != nil {
		release()
		return nil, err
	}

	return newStream(ctx, source, release, r.logger), nil
}

// Close releases all cached runtimes.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, rt := range r.cache {
		if err := rt.Close(); err != nil {
			r.logger.Warn("failed to close runtime for %s: %v", name, err)
		}
		delete(r.cache, name)
	}
}
