// Package agents defines the built-in agent catalog served when no manifest
// is configured. Deployments that provide an agent manifest replace this set
// entirely.
package agents

import (
	"github.com/ahmad2b/cogniserve/internal/config"
	"github.com/ahmad2b/cogniserve/internal/runtime"
)

const assistantInstructions = `You are a helpful AI assistant.

Your role is to:
- Answer questions clearly and concisely
- Provide helpful information on a wide range of topics
- Be friendly and professional
- If you're unsure about something, say so honestly

Keep your responses focused and useful.`

const coderInstructions = `You are an expert programming assistant.

Your role is to:
- Write clean, idiomatic code in the requested language
- Explain the reasoning behind non-obvious choices
- Point out bugs and edge cases in code you are shown
- Prefer small, verifiable steps over large rewrites

When the request is ambiguous, state your assumptions before answering.`

const chatInstructions = "An agent that can chat with the user and answer questions. You maintain conversation context when session memory is enabled."

const researchInstructions = `You are a research agent.

Given a query, plan the searches needed to answer it, gather the results,
and synthesize them into a concise, well-sourced summary. Hand off to the
report writer once the findings are complete.`

const writerInstructions = `You are a senior researcher tasked with writing a cohesive report for a research query.

You will be provided with the original query and research findings. Produce
a markdown report with a short summary followed by the detailed findings.`

// Builtin returns the default agent set, each bound to its endpoint prefix.
// The returned configs are freshly built so callers may mutate them.
func Builtin(model string) []config.BoundAgent {
	if model == "" {
		model = "gpt-4.1-mini"
	}
	return []config.BoundAgent{
		{
			DisplayName: "assistant",
			Prefix:      "/assistant",
			Agent: &runtime.AgentConfig{
				Name:         "General Assistant",
				Instructions: assistantInstructions,
				Model:        model,
			},
		},
		{
			DisplayName: "coder",
			Prefix:      "/coder",
			Agent: &runtime.AgentConfig{
				Name:         "Code Assistant",
				Instructions: coderInstructions,
				Model:        model,
			},
		},
		{
			DisplayName: "chat",
			Prefix:      "/chat",
			Agent: &runtime.AgentConfig{
				Name:         "Chat Agent",
				Instructions: chatInstructions,
				Model:        model,
			},
		},
		{
			DisplayName: "research",
			Prefix:      "/research",
			Agent: &runtime.AgentConfig{
				Name:         "Research Agent",
				Instructions: researchInstructions,
				Model:        model,
				Tools: []runtime.ToolSpec{
					{Name: "web_search", Description: "Search the web for a term and return a summary of the results"},
				},
				Handoffs: []*runtime.AgentConfig{
					{
						Name:         "Report Writer",
						Instructions: writerInstructions,
						Model:        model,
					},
				},
			},
		},
	}
}
