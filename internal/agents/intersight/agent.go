// Package intersight implements the Cisco Intersight delegate agent: a
// single-completion agent that answers questions about a Cisco Intersight
// environment.
package intersight

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/norasys/nora/internal/a2a"
	"github.com/norasys/nora/internal/llm"
)

const (
	// DefaultURL is where the agent advertises itself when no URL is
	// configured.
	DefaultURL = "http://localhost:8002"

	promptTemplate = `You are a Cisco Intersight agent that helps users manage and understand their Cisco Intersight environment. You have access to various resources and can provide information about devices, policies, and configurations.

user message: %s
Keep your responses concise and to the point. If you don't know the answer, it's okay`

	errorResponse = "An error occurred while processing your request."
)

// Completer is the completion capability the agent needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Agent answers Cisco Intersight questions with one model completion per
// message. Failures are absorbed into a fixed error response so callers
// always receive text.
type Agent struct {
	completer Completer
	url       string
	logger    *zap.Logger
}

// AgentConfig contains configuration for creating an Agent.
type AgentConfig struct {
	Completer Completer
	URL       string
	Logger    *zap.Logger
}

// NewAgent creates the Cisco Intersight agent.
func NewAgent(cfg AgentConfig) *Agent {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		completer: cfg.Completer,
		url:       url,
		logger:    logger,
	}
}

// Execute renders the agent prompt around the user message and returns the
// model's reply. Completion failures degrade to the fixed error response.
func (a *Agent) Execute(ctx context.Context, input string) (string, error) {
	resp, err := a.completer.Complete(ctx, llm.Request{
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(promptTemplate, input))),
		},
	})
	if err != nil {
		a.logger.Warn("completion failed", zap.Error(err))
		return errorResponse, nil
	}
	return resp.Text, nil
}

// Card describes the agent for discovery.
func (a *Agent) Card() a2a.AgentCard {
	return a2a.NewCard(
		"Cisco Intersight Agent",
		"An agent that provides information about the Cisco Intersight.",
		a.url,
		a2a.AgentSkill{
			ID:          "cisco_intersight_skill",
			Name:        "Cisco Intersight Greeting Skill",
			Description: "A skill that provides a greeting message for the Cisco Intersight agent.",
			Tags:        []string{"greeting", "cisco_intersight"},
			Examples:    []string{"Hello Cisco Intersight!", "What can you do for me?"},
		},
	)
}
