package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// MessagesPath is the endpoint a delegate accepts send requests on.
	MessagesPath = "/v1/messages"

	// HealthPath is the endpoint a delegate reports liveness on.
	HealthPath = "/health"

	defaultClientTimeout = 30 * time.Second
)

// ErrMalformedResponse reports a 2xx reply whose body did not carry a
// decodable message envelope.
var ErrMalformedResponse = errors.New("a2a: malformed response envelope")

// HTTPError reports a non-2xx status from a delegate endpoint.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("a2a: %s returned %d", e.URL, e.StatusCode)
}

// Client sends message envelopes to delegate agents over HTTP.
type Client struct {
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient builds a Client with a sane default timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage POSTs the request envelope to the delegate at baseURL and
// decodes the reply envelope. Non-2xx statuses surface as *HTTPError; a 2xx
// body without a message surfaces as ErrMalformedResponse.
func (c *Client) SendMessage(ctx context.Context, baseURL string, req SendMessageRequest) (*Message, error) {
	endpoint := strings.TrimRight(baseURL, "/") + MessagesPath

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var envelope SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if envelope.Message == nil {
		return nil, ErrMalformedResponse
	}
	return envelope.Message, nil
}

// SendText wraps text in a user message under the given request id, sends it,
// and returns the text of the reply's first part. A reply without parts is
// treated as empty text rather than an error.
func (c *Client) SendText(ctx context.Context, baseURL, requestID, text string) (string, error) {
	msg, err := c.SendMessage(ctx, baseURL, NewSendMessageRequest(requestID, text))
	if err != nil {
		return "", err
	}
	reply, _ := msg.FirstText()
	return reply, nil
}

// CheckHealth GETs the delegate's health endpoint and returns an error for
// any non-2xx status.
func (c *Client) CheckHealth(ctx context.Context, baseURL string) error {
	endpoint := strings.TrimRight(baseURL, "/") + HealthPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("checking health: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}
	return nil
}

// FetchCard GETs the agent card published at the well-known path.
func (c *Client) FetchCard(ctx context.Context, baseURL string) (*AgentCard, error) {
	endpoint := strings.TrimRight(baseURL, "/") + WellKnownCardPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetching card: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &card, nil
}
