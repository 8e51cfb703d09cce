package a2a

import (
	"encoding/json"
	"testing"
)

func TestFirstText(t *testing.T) {
	msg := Message{Parts: []Part{{Text: "hello"}, {Text: "ignored"}}}
	text, ok := msg.FirstText()
	if !ok {
		t.Error("expected ok for message with parts")
	}
	if text != "hello" {
		t.Errorf("expected first part text, got %q", text)
	}
}

func TestFirstTextEmpty(t *testing.T) {
	msg := Message{}
	if _, ok := msg.FirstText(); ok {
		t.Error("expected not ok for message without parts")
	}

	var nilMsg *Message
	if _, ok := nilMsg.FirstText(); ok {
		t.Error("expected not ok for nil message")
	}
}

func TestNewSendMessageRequest(t *testing.T) {
	req := NewSendMessageRequest("cisco_intersight_tool_call", "hello there")

	if req.ID != "cisco_intersight_tool_call" {
		t.Errorf("expected request id to be preserved, got %q", req.ID)
	}
	if req.Params.Message.Role != RoleUser {
		t.Errorf("expected user role, got %q", req.Params.Message.Role)
	}
	if req.Params.Message.MessageID == "" {
		t.Error("expected a generated message id")
	}
	if len(req.Params.Message.Parts) != 1 || req.Params.Message.Parts[0].Text != "hello there" {
		t.Errorf("expected a single text part, got %v", req.Params.Message.Parts)
	}
}

func TestNewAgentText(t *testing.T) {
	msg := NewAgentText("Cisco Intersight Agent", "hi")

	if msg.Role != RoleAgent {
		t.Errorf("expected agent role, got %q", msg.Role)
	}
	if msg.Metadata["name"] != "Cisco Intersight Agent" {
		t.Errorf("expected metadata name, got %v", msg.Metadata)
	}
	if msg.MessageID == "" {
		t.Error("expected a generated message id")
	}
}

func TestRequestWireFormat(t *testing.T) {
	req := NewSendMessageRequest("service_catalog_tool_call", "bye")
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["id"] != "service_catalog_tool_call" {
		t.Errorf("expected id field on the wire, got %v", decoded["id"])
	}
	params, ok := decoded["params"].(map[string]interface{})
	if !ok {
		t.Fatal("expected params object on the wire")
	}
	msg, ok := params["message"].(map[string]interface{})
	if !ok {
		t.Fatal("expected message object under params")
	}
	if msg["role"] != "user" {
		t.Errorf("expected role user on the wire, got %v", msg["role"])
	}
	if _, ok := msg["message_id"].(string); !ok {
		t.Error("expected message_id field on the wire")
	}
}

func TestCardDefaults(t *testing.T) {
	card := NewCard("Test Agent", "does testing", "http://localhost:9000/")

	if card.Version != CardVersion {
		t.Errorf("expected card version %q, got %q", CardVersion, card.Version)
	}
	if len(card.DefaultInputModes) != 1 || card.DefaultInputModes[0] != "text" {
		t.Errorf("expected text input mode, got %v", card.DefaultInputModes)
	}
	if len(card.DefaultOutputModes) != 1 || card.DefaultOutputModes[0] != "text" {
		t.Errorf("expected text output mode, got %v", card.DefaultOutputModes)
	}
	if !card.Capabilities.Streaming {
		t.Error("expected streaming capability")
	}
}
