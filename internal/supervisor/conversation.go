// Package supervisor implements the orchestration core: conversation state,
// the decision engine, the dispatcher, and the bounded decide/dispatch loop
// that routes user messages to delegate agents.
package supervisor

import "strings"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser       Role = "user"
	RoleAgent      Role = "agent"
	RoleSystem     Role = "system"
	RoleToolResult Role = "tool_result"
)

// ToolInvocation records a delegate call requested by the decision engine.
type ToolInvocation struct {
	// ID is the provider correlation id of the tool-use block. It is needed
	// to replay the conversation back to the completion API.
	ID string
	// ToolName is the registry name of the delegate to call.
	ToolName string
	// Argument is the message forwarded to the delegate.
	Argument string
}

// Message is one entry in a conversation. Messages are immutable once appended.
type Message struct {
	Role    Role
	Content string
	// Invocation is set only on agent messages that request a delegate call.
	Invocation *ToolInvocation
}

// Conversation is the append-only message history for a single run. Each run
// owns its conversation exclusively; nothing here is safe for concurrent use.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation seeded with the user's message.
func NewConversation(userMessage string) *Conversation {
	return &Conversation{
		messages: []Message{{Role: RoleUser, Content: userMessage}},
	}
}

// Append adds a message to the history.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns the history in order. Callers must not mutate entries.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// LatestUserContent returns the content of the most recent user message,
// or "" when there is none.
func (c *Conversation) LatestUserContent() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleUser {
			return c.messages[i].Content
		}
	}
	return ""
}

// LastReplyContent returns the most recent non-blank agent or tool_result
// content, or "" when there is none. Used to salvage an answer when the
// loop is cut short.
func (c *Conversation) LastReplyContent() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		msg := c.messages[i]
		if msg.Role != RoleAgent && msg.Role != RoleToolResult {
			continue
		}
		if strings.TrimSpace(msg.Content) != "" {
			return msg.Content
		}
	}
	return ""
}
