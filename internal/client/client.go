// Package client is the CLI side of the system: it sends messages to the
// supervisor or directly to delegate agents, probes their availability, and
// broadcasts a message to several agents at once.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/norasys/nora/internal/a2a"
)

// Kind distinguishes how a target is spoken to on the wire.
type Kind int

const (
	// KindSupervisor targets speak the chat endpoint protocol.
	KindSupervisor Kind = iota
	// KindDelegate targets speak the agent-to-agent message protocol.
	KindDelegate
)

// Target is one addressable agent service.
type Target struct {
	// Name is the CLI name of the target, also used to derive request ids.
	Name string
	// DisplayName is the human-readable name used in output.
	DisplayName string
	// URL is the base URL of the service.
	URL string
	Kind Kind
}

const (
	defaultSendTimeout  = 30 * time.Second
	defaultProbeTimeout = 5 * time.Second
)

// Client talks to the agent services from the command line.
type Client struct {
	httpClient   *http.Client
	wire         *a2a.Client
	probeTimeout time.Duration
}

// Config contains configuration for creating a Client.
type Config struct {
	// SendTimeout bounds chat round-trips (0 = default 30s).
	SendTimeout time.Duration
	// ProbeTimeout bounds status probes (0 = default 5s).
	ProbeTimeout time.Duration
}

// New creates a CLI client.
func New(cfg Config) *Client {
	sendTimeout := cfg.SendTimeout
	if sendTimeout == 0 {
		sendTimeout = defaultSendTimeout
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout == 0 {
		probeTimeout = defaultProbeTimeout
	}

	return &Client{
		httpClient:   &http.Client{Timeout: sendTimeout},
		wire:         a2a.NewClient(a2a.WithTimeout(sendTimeout)),
		probeTimeout: probeTimeout,
	}
}

// Send delivers message to the target and returns the reply text.
func (c *Client) Send(ctx context.Context, target Target, message string) (string, error) {
	switch target.Kind {
	case KindSupervisor:
		return c.sendChat(ctx, target, message)
	default:
		return c.wire.SendText(ctx, target.URL, target.Name+"_cli_call", message)
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (c *Client) sendChat(ctx context.Context, target Target, message string) (string, error) {
	endpoint := strings.TrimRight(target.URL, "/") + "/agent/chat"

	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending to %s: %w", target.Name, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s agent", resp.StatusCode, target.Name)
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding reply from %s: %w", target.Name, err)
	}
	return payload.Response, nil
}

// FetchCard retrieves the agent card a delegate publishes. The supervisor
// does not publish one.
func (c *Client) FetchCard(ctx context.Context, target Target) (*a2a.AgentCard, error) {
	if target.Kind != KindDelegate {
		return nil, fmt.Errorf("%s does not publish an agent card", target.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()
	return c.wire.FetchCard(ctx, target.URL)
}
