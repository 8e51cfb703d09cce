// Package catalog implements the Service Catalog delegate agent: a
// single-completion agent that answers questions about the services a
// company offers.
package catalog

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
	DefaultURL = "http://localhost:8001"

	promptTemplate = `You are a service catalog agent that helps users find and understand various services offered by a company. You have access to a list of services, each with a name, description, and pricing information.
and friendly greeting specialist who asks the user what they need help with.
user message: %s
Keep your responses concise and to the point. If you don't know the answer, it's okay to say so.`

	errorResponse = "An error occurred while processing your request."
)

// Completer is the completion capability the agent needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Agent answers service catalog questions with one model completion per
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

// NewAgent creates the Service Catalog agent.
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
		"Service Catalog Agent",
		"An agent that provides information about the service catalog.",
		a.url,
		a2a.AgentSkill{
			ID:          "service_catalog_skill",
			Name:        "Service Catalog Greeting Skill",
			Description: "A skill that provides a greeting message for the Service Catalog agent.",
			Tags:        []string{"greeting", "service_catalog"},
			Examples:    []string{"Hello service catalog!", "What services do you offer?"},
		},
	)
}
