package supervisor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DelegateCaller performs one wire call to a delegate service and returns
// the reply text. *a2a.Client satisfies it.
type DelegateCaller interface {
	SendText(ctx context.Context, baseURL, requestID, text string) (string, error)
}

// Dispatcher resolves delegate invocations against the registry and performs
// the network call.
type Dispatcher struct {
	caller   DelegateCaller
	registry *Registry
	timeout  time.Duration
	logger   *zap.Logger
}

// DispatcherConfig contains configuration for creating a Dispatcher.
type DispatcherConfig struct {
	Caller   DelegateCaller
	Registry *Registry
	// Timeout bounds each delegate round-trip (0 = default 30s).
	Timeout time.Duration
	Logger  *zap.Logger
}

const defaultDispatchTimeout = 30 * time.Second

// NewDispatcher creates a dispatcher. Caller and Registry are required.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultDispatchTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		caller:   cfg.Caller,
		registry: cfg.Registry,
		timeout:  timeout,
		logger:   logger,
	}
}

// Dispatch performs the delegate call for inv and returns the tool_result
// message to append. It never returns an error and never retries: transport
// failures, timeouts, and malformed replies all become message text.
func (d *Dispatcher) Dispatch(ctx context.Context, inv ToolInvocation) Message {
	delegate, ok := d.registry.Lookup(inv.ToolName)
	if !ok {
		d.logger.Warn("dispatch requested for unregistered tool", zap.String("tool", inv.ToolName))
		return Message{
			Role:    RoleToolResult,
			Content: fmt.Sprintf("no agent registered for tool %q", inv.ToolName),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	requestID := delegate.Name + "_tool_call"
	d.logger.Info("dispatching to delegate",
		zap.String("agent", delegate.DisplayName),
		zap.String("url", delegate.URL))

	reply, err := d.caller.SendText(ctx, delegate.URL, requestID, inv.Argument)
	if err != nil {
		d.logger.Warn("delegate call failed",
			zap.String("agent", delegate.DisplayName),
			zap.Error(err))
		return Message{Role: RoleToolResult, Content: invalidResponse(delegate)}
	}

	return Message{Role: RoleToolResult, Content: reply}
}

// invalidResponse is the normalized reply for any failed delegate call.
func invalidResponse(d Delegate) string {
	return d.DisplayName + " did not return a valid response."
}
