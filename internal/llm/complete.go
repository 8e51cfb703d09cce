package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Request describes a single completion call.
type Request struct {
	// System is the system prompt. Empty means none.
	System string
	// Messages is the conversation history in API form.
	Messages []anthropic.MessageParam
	// Tools are the tool schemas offered to the model. Empty means none.
	Tools []anthropic.ToolUnionParam
	// MaxTokens caps the response length. Zero means the package default.
	MaxTokens int64
}

// ToolUse is a tool invocation requested by the model.
type ToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Response is the decoded result of a completion call.
type Response struct {
	// Text is the concatenation of all text blocks, in order.
	Text string
	// ToolUses holds the tool-use blocks, in order.
	ToolUses []ToolUse
	// StopReason is the model's reported stop reason.
	StopReason anthropic.StopReason
}

const defaultMaxTokens = 2048

// Complete performs one completion call and decodes the content blocks.
// Cancellation and deadlines come from ctx.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  req.Messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}
	if len(req.Tools) > 0 {
		params.Tools = req.Tools
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("completion call: %w", err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	out := &Response{StopReason: resp.StopReason}
	var text strings.Builder
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(variant.Text)
		case anthropic.ToolUseBlock:
			out.ToolUses = append(out.ToolUses, ToolUse{
				ID:    variant.ID,
				Name:  variant.Name,
				Input: variant.Input,
			})
		}
	}
	out.Text = text.String()

	return out, nil
}
