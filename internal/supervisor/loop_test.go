package supervisor

import (
	"context"
	"fmt"
	"testing"
)

// scriptedDecider returns its decisions in order, repeating the last one.
type scriptedDecider struct {
	decisions []Decision
	calls     int
}

func (s *scriptedDecider) Decide(ctx context.Context, conv *Conversation) Decision {
	i := s.calls
	if i >= len(s.decisions) {
		i = len(s.decisions) - 1
	}
	s.calls++
	return s.decisions[i]
}

// countingDispatcher returns canned tool results.
type countingDispatcher struct {
	content string
	calls   int
}

func (c *countingDispatcher) Dispatch(ctx context.Context, inv ToolInvocation) Message {
	c.calls++
	return Message{Role: RoleToolResult, Content: c.content}
}

func delegateDecision(id, tool, argument string) Decision {
	return Decision{
		Kind:       DecisionDelegate,
		Invocation: ToolInvocation{ID: id, ToolName: tool, Argument: argument},
	}
}

func finalDecision(text string) Decision {
	return Decision{Kind: DecisionFinal, Text: text}
}

func TestRunImmediateFinal(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{finalDecision("Hi there!")}}
	dispatcher := &countingDispatcher{}
	loop := NewLoop(LoopConfig{Engine: decider, Dispatcher: dispatcher})

	result, err := loop.Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Output != "Hi there!" {
		t.Errorf("expected final answer, got %q", result.Output)
	}
	if result.Cycles != 0 {
		t.Errorf("expected 0 cycles, got %d", result.Cycles)
	}
	if result.ForcedFinal {
		t.Error("expected a natural final answer")
	}
	if dispatcher.calls != 0 {
		t.Errorf("expected no dispatches, got %d", dispatcher.calls)
	}
	// user message plus final agent message
	if result.Conversation.Len() != 2 {
		t.Errorf("expected 2 messages, got %d", result.Conversation.Len())
	}
}

func TestRunSingleDelegation(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{
		delegateDecision("toolu_01", "cisco_intersight", "hello"),
		finalDecision("The agent says hi."),
	}}
	dispatcher := &countingDispatcher{content: "Hi from the delegate."}
	loop := NewLoop(LoopConfig{Engine: decider, Dispatcher: dispatcher})

	result, err := loop.Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Output != "The agent says hi." {
		t.Errorf("expected final answer, got %q", result.Output)
	}
	if result.Cycles != 1 {
		t.Errorf("expected 1 cycle, got %d", result.Cycles)
	}
	if dispatcher.calls != 1 {
		t.Errorf("expected 1 dispatch, got %d", dispatcher.calls)
	}

	// user, agent(invocation), tool_result, agent(final)
	msgs := result.Conversation.Messages()
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	wantRoles := []Role{RoleUser, RoleAgent, RoleToolResult, RoleAgent}
	for i, msg := range msgs {
		if msg.Role != wantRoles[i] {
			t.Errorf("message %d: expected role %q, got %q", i, wantRoles[i], msg.Role)
		}
	}
	if msgs[1].Invocation == nil || msgs[1].Invocation.ToolName != "cisco_intersight" {
		t.Error("expected the delegating agent message to record the invocation")
	}
	if msgs[2].Content != "Hi from the delegate." {
		t.Errorf("expected the tool result content, got %q", msgs[2].Content)
	}
}

// Each completed cycle adds exactly two messages on top of the seed, and the
// final answer adds one more.
func TestRunMessageGrowth(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{
		delegateDecision("toolu_01", "cisco_intersight", "a"),
		delegateDecision("toolu_02", "service_catalog", "b"),
		delegateDecision("toolu_03", "cisco_intersight", "c"),
		finalDecision("done"),
	}}
	dispatcher := &countingDispatcher{content: "partial"}
	loop := NewLoop(LoopConfig{Engine: decider, Dispatcher: dispatcher})

	result, err := loop.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Cycles != 3 {
		t.Errorf("expected 3 cycles, got %d", result.Cycles)
	}
	want := 1 + 2*result.Cycles + 1
	if result.Conversation.Len() != want {
		t.Errorf("expected %d messages, got %d", want, result.Conversation.Len())
	}
}

// Invocations recorded on earlier messages must survive later cycles.
func TestRunInvocationsStayDistinct(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{
		delegateDecision("toolu_01", "cisco_intersight", "first"),
		delegateDecision("toolu_02", "service_catalog", "second"),
		finalDecision("done"),
	}}
	loop := NewLoop(LoopConfig{Engine: decider, Dispatcher: &countingDispatcher{content: "r"}})

	result, err := loop.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	msgs := result.Conversation.Messages()
	first := msgs[1].Invocation
	second := msgs[3].Invocation
	if first == nil || second == nil {
		t.Fatal("expected both delegating messages to record invocations")
	}
	if first.ToolName != "cisco_intersight" || first.Argument != "first" {
		t.Errorf("first invocation was overwritten: %+v", first)
	}
	if second.ToolName != "service_catalog" || second.Argument != "second" {
		t.Errorf("unexpected second invocation: %+v", second)
	}
}

func TestRunForcedFinalAtBound(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{
		delegateDecision("toolu_01", "cisco_intersight", "again"),
	}}
	dispatcher := &countingDispatcher{content: "partial answer"}
	loop := NewLoop(LoopConfig{Engine: decider, Dispatcher: dispatcher, MaxCycles: 3})

	result, err := loop.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.ForcedFinal {
		t.Error("expected the cycle bound to force a final answer")
	}
	if result.Cycles != 3 {
		t.Errorf("expected exactly 3 cycles, got %d", result.Cycles)
	}
	if dispatcher.calls != 3 {
		t.Errorf("expected 3 dispatches, got %d", dispatcher.calls)
	}
	if result.Output != "partial answer" {
		t.Errorf("expected the last delegate reply as output, got %q", result.Output)
	}
}

func TestRunForcedFinalWithoutReplies(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{
		delegateDecision("toolu_01", "cisco_intersight", "again"),
	}}
	dispatcher := &countingDispatcher{content: "   "}
	loop := NewLoop(LoopConfig{Engine: decider, Dispatcher: dispatcher, MaxCycles: 2})

	result, err := loop.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.ForcedFinal {
		t.Error("expected a forced final answer")
	}
	if result.Output != FallbackResponse {
		t.Errorf("expected fallback text, got %q", result.Output)
	}
}

func TestRunEmptyMessage(t *testing.T) {
	loop := NewLoop(LoopConfig{
		Engine:     &scriptedDecider{decisions: []Decision{finalDecision("x")}},
		Dispatcher: &countingDispatcher{},
	})

	for _, message := range []string{"", "   ", "\n\t"} {
		if _, err := loop.Run(context.Background(), message); err == nil {
			t.Errorf("expected an error for message %q", message)
		}
	}
}

func TestRunDefaultMaxCycles(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{
		delegateDecision("toolu_01", "cisco_intersight", "again"),
	}}
	dispatcher := &countingDispatcher{content: "r"}
	loop := NewLoop(LoopConfig{Engine: decider, Dispatcher: dispatcher})

	result, err := loop.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Cycles != 5 {
		t.Errorf("expected the default bound of 5 cycles, got %d", result.Cycles)
	}
}

// A decider that keeps delegating against a dispatcher that keeps failing
// must still terminate with usable text.
func TestRunDegradedDelegateTerminates(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{
		delegateDecision("toolu_01", "cisco_intersight", "hi"),
	}}
	failing := &countingDispatcher{content: "Cisco Intersight Agent did not return a valid response."}
	loop := NewLoop(LoopConfig{Engine: decider, Dispatcher: failing, MaxCycles: 2})

	result, err := loop.Run(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Output == "" {
		t.Error("expected non-empty output")
	}
	if !result.ForcedFinal {
		t.Error("expected the bound to end the run")
	}
}

func TestRunSequentialConversations(t *testing.T) {
	loop := NewLoop(LoopConfig{
		Engine:     &scriptedDecider{decisions: []Decision{finalDecision("one")}},
		Dispatcher: &countingDispatcher{},
	})

	for i := 0; i < 3; i++ {
		result, err := loop.Run(context.Background(), fmt.Sprintf("message %d", i))
		if err != nil {
			t.Fatalf("Run %d failed: %v", i, err)
		}
		if result.Conversation.Len() != 2 {
			t.Errorf("run %d: expected a fresh conversation, got %d messages", i, result.Conversation.Len())
		}
	}
}
