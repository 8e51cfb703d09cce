// Package a2a implements the agent-to-agent wire protocol: the message
// envelope delegates accept on /v1/messages, the HTTP client the supervisor
// dispatches through, and the server app delegate agents run behind.
package a2a

import (
	"github.com/google/uuid"
)

// Role identifies the author of a wire message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Part is one content fragment of a message. Only text parts exist today.
type Part struct {
	Text string `json:"text"`
}

// Message is the wire representation of a single utterance.
type Message struct {
	MessageID string            `json:"message_id"`
	Role      Role              `json:"role"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Parts     []Part            `json:"parts"`
}

// FirstText returns the text of the first part, and whether one exists.
func (m *Message) FirstText() (string, bool) {
	if m == nil || len(m.Parts) == 0 {
		return "", false
	}
	return m.Parts[0].Text, true
}

// SendMessageParams wraps the message of a send request.
type SendMessageParams struct {
	Message Message `json:"message"`
}

// SendMessageRequest is the envelope POSTed to a delegate's /v1/messages.
type SendMessageRequest struct {
	ID     string            `json:"id"`
	Params SendMessageParams `json:"params"`
}

// SendMessageResponse is the envelope a delegate replies with. Message is a
// pointer so a missing "message" key is detectable after decoding.
type SendMessageResponse struct {
	Message *Message `json:"message"`
}

// NewUserText builds a user message carrying a single text part.
func NewUserText(text string) Message {
	return Message{
		MessageID: uuid.New().String(),
		Role:      RoleUser,
		Parts:     []Part{{Text: text}},
	}
}

// NewAgentText builds an agent reply carrying a single text part. agentName
// is recorded in the message metadata.
func NewAgentText(agentName, text string) Message {
	return Message{
		MessageID: uuid.New().String(),
		Role:      RoleAgent,
		Metadata:  map[string]string{"name": agentName},
		Parts:     []Part{{Text: text}},
	}
}

// NewSendMessageRequest builds the request envelope for one delegate call.
func NewSendMessageRequest(requestID, text string) SendMessageRequest {
	return SendMessageRequest{
		ID: requestID,
		Params: SendMessageParams{
			Message: NewUserText(text),
		},
	}
}
