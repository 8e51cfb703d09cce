package supervisor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// loopPhase is the explicit state of a run.
type loopPhase int

const (
	phaseDeciding loopPhase = iota
	phaseDispatching
)

// Decider chooses the next step for a conversation. *Engine satisfies it.
type Decider interface {
	Decide(ctx context.Context, conv *Conversation) Decision
}

// ToolDispatcher performs delegate calls. *Dispatcher satisfies it.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, inv ToolInvocation) Message
}

// Loop drives one conversation to completion: decide, dispatch the chosen
// delegate, feed the result back, decide again. Every run gets a fresh
// Conversation; concurrent runs share only the read-only registry and the
// underlying clients.
type Loop struct {
	engine     Decider
	dispatcher ToolDispatcher
	maxCycles  int
	logger     *zap.Logger
}

// LoopConfig contains configuration for the orchestration loop.
type LoopConfig struct {
	Engine     Decider
	Dispatcher ToolDispatcher
	// MaxCycles bounds decide/dispatch rounds per run (0 = default 5).
	MaxCycles int
	Logger    *zap.Logger
}

// RunResult contains the results of one orchestration run.
type RunResult struct {
	// Output is the final answer returned to the user.
	Output string
	// Cycles is the number of completed decide/dispatch rounds.
	Cycles int
	// ForcedFinal is true when the cycle bound cut the run short.
	ForcedFinal bool
	// Conversation is the full message history of the run.
	Conversation *Conversation
}

const defaultMaxCycles = 5

// NewLoop creates an orchestration loop. Engine and Dispatcher are required.
func NewLoop(cfg LoopConfig) *Loop {
	maxCycles := cfg.MaxCycles
	if maxCycles == 0 {
		maxCycles = defaultMaxCycles
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loop{
		engine:     cfg.Engine,
		dispatcher: cfg.Dispatcher,
		maxCycles:  maxCycles,
		logger:     logger,
	}
}

// Run processes one user message to a final answer. Engine and dispatcher
// failures degrade to fallback text inside the run; the returned error is
// reserved for caller misuse (an empty message).
func (l *Loop) Run(ctx context.Context, userMessage string) (*RunResult, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, fmt.Errorf("empty user message")
	}

	conv := NewConversation(userMessage)
	result := &RunResult{Conversation: conv}

	var pending ToolInvocation
	phase := phaseDeciding

	for {
		switch phase {
		case phaseDeciding:
			decision := l.engine.Decide(ctx, conv)

			if decision.IsFinal() {
				conv.Append(Message{Role: RoleAgent, Content: decision.Text})
				result.Output = decision.Text
				return result, nil
			}

			if result.Cycles >= l.maxCycles {
				// Bound reached: refuse the delegate call and answer with
				// whatever reply text the run already produced.
				output := conv.LastReplyContent()
				if output == "" {
					output = FallbackResponse
				}
				conv.Append(Message{Role: RoleAgent, Content: output})
				result.Output = output
				result.ForcedFinal = true
				l.logger.Warn("cycle bound reached, forcing final answer",
					zap.Int("cycles", result.Cycles),
					zap.String("tool", decision.Invocation.ToolName))
				return result, nil
			}

			inv := decision.Invocation
			pending = inv
			conv.Append(Message{Role: RoleAgent, Content: decision.Text, Invocation: &inv})
			phase = phaseDispatching

		case phaseDispatching:
			conv.Append(l.dispatcher.Dispatch(ctx, pending))
			result.Cycles++
			phase = phaseDeciding
		}
	}
}
