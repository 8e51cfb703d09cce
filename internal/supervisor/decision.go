package supervisor

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/norasys/nora/internal/llm"
)

// DecisionKind discriminates the two decision variants.
type DecisionKind int

const (
	// DecisionFinal means the conversation is complete.
	DecisionFinal DecisionKind = iota
	// DecisionDelegate means a delegate should handle the next step.
	DecisionDelegate
)

// Decision is the outcome of one engine step. Exactly one variant applies:
// a final answer for the user, or a delegate invocation.
type Decision struct {
	Kind DecisionKind
	// Text is the final answer (DecisionFinal) or the commentary the model
	// produced alongside a delegate call (DecisionDelegate, may be empty).
	Text string
	// Invocation is meaningful only when Kind is DecisionDelegate.
	Invocation ToolInvocation
}

// IsFinal reports whether the decision ends the conversation.
func (d Decision) IsFinal() bool {
	return d.Kind == DecisionFinal
}

// Completer is the completion capability the engine depends on.
// *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Engine chooses the next step for a conversation by asking the model to
// either answer directly or pick a delegate tool.
type Engine struct {
	completer Completer
	registry  *Registry
	timeout   time.Duration
	logger    *zap.Logger
}

// EngineConfig contains configuration for creating an Engine.
type EngineConfig struct {
	Completer Completer
	Registry  *Registry
	// Timeout bounds each completion call. Zero means no per-call bound.
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewEngine creates a decision engine. Completer and Registry are required.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		completer: cfg.Completer,
		registry:  cfg.Registry,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Decide asks the model for the next step. It always returns a usable
// decision: completion failures and unrecognized tool names degrade to a
// final answer rather than an error.
func (e *Engine) Decide(ctx context.Context, conv *Conversation) Decision {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.completer.Complete(ctx, llm.Request{
		System:   routingPrompt(e.registry),
		Messages: apiMessages(conv),
		Tools:    e.registry.ToolDefinitions(),
	})
	if err != nil {
		e.logger.Warn("completion failed, answering with fallback", zap.Error(err))
		return Decision{Kind: DecisionFinal, Text: FallbackResponse}
	}

	if len(resp.ToolUses) > 0 {
		use := resp.ToolUses[0]
		if _, ok := e.registry.Lookup(use.Name); ok {
			argument := decodeToolArgument(use.Input)
			if argument == "" {
				argument = conv.LatestUserContent()
			}
			return Decision{
				Kind: DecisionDelegate,
				Text: resp.Text,
				Invocation: ToolInvocation{
					ID:       use.ID,
					ToolName: use.Name,
					Argument: argument,
				},
			}
		}
		// Tool names outside the registry are rejected outright.
		e.logger.Warn("model requested unregistered tool", zap.String("tool", use.Name))
	}

	text := resp.Text
	if strings.TrimSpace(text) == "" {
		text = FallbackResponse
	}
	return Decision{Kind: DecisionFinal, Text: text}
}

// decodeToolArgument extracts the "message" parameter from a tool-use input.
func decodeToolArgument(input json.RawMessage) string {
	var params struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return ""
	}
	return params.Message
}

// apiMessages converts the conversation history to API message params.
// Tool results are correlated with the preceding agent message's tool-use
// id, which the conversation invariants guarantee is adjacent.
func apiMessages(conv *Conversation) []anthropic.MessageParam {
	msgs := conv.Messages()
	out := make([]anthropic.MessageParam, 0, len(msgs))

	for i, msg := range msgs {
		switch msg.Role {
		case RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))

		case RoleAgent:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			if msg.Invocation != nil {
				input, _ := json.Marshal(map[string]string{"message": msg.Invocation.Argument})
				blocks = append(blocks, anthropic.NewToolUseBlock(msg.Invocation.ID, json.RawMessage(input), msg.Invocation.ToolName))
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}

		case RoleToolResult:
			var id string
			if i > 0 && msgs[i-1].Invocation != nil {
				id = msgs[i-1].Invocation.ID
			}
			out = append(out, anthropic.NewUserMessage(anthropic.NewToolResultBlock(id, msg.Content, false)))

		case RoleSystem:
			// System guidance reaches the model through the routing prompt.
		}
	}

	return out
}
