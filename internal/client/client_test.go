package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/norasys/nora/internal/a2a"
)

func supervisorTarget(url string) Target {
	return Target{Name: "supervisor", DisplayName: "Supervisor Agent", URL: url, Kind: KindSupervisor}
}

func delegateTarget(name, url string) Target {
	return Target{Name: name, DisplayName: name, URL: url, Kind: KindDelegate}
}

func TestSendSupervisor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agent/chat" {
			t.Errorf("expected /agent/chat, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["message"] != "hello" {
			t.Errorf("expected message on the wire, got %q", req["message"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "routed reply"})
	}))
	defer srv.Close()

	c := New(Config{})
	reply, err := c.Send(context.Background(), supervisorTarget(srv.URL), "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "routed reply" {
		t.Errorf("expected supervisor reply, got %q", reply)
	}
}

func TestSendSupervisorHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{})
	_, err := c.Send(context.Background(), supervisorTarget(srv.URL), "hello")
	if err == nil {
		t.Fatal("expected an error for a 502 reply")
	}
	if !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("expected the status code in the error, got %v", err)
	}
}

func TestSendDelegate(t *testing.T) {
	var received a2a.SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != a2a.MessagesPath {
			t.Errorf("expected %s, got %s", a2a.MessagesPath, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		reply := a2a.NewAgentText("Cisco Intersight Agent", "direct reply")
		_ = json.NewEncoder(w).Encode(a2a.SendMessageResponse{Message: &reply})
	}))
	defer srv.Close()

	c := New(Config{})
	reply, err := c.Send(context.Background(), delegateTarget("cisco_intersight", srv.URL), "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "direct reply" {
		t.Errorf("expected delegate reply, got %q", reply)
	}
	if received.ID != "cisco_intersight_cli_call" {
		t.Errorf("expected cli request id, got %q", received.ID)
	}
}

func TestCheckStatusOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != a2a.HealthPath {
			t.Errorf("expected delegate probe on %s, got %s", a2a.HealthPath, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := New(Config{})
	status := c.CheckStatus(context.Background(), delegateTarget("cisco_intersight", srv.URL))
	if status.State != StateOnline {
		t.Errorf("expected online, got %v", status.State)
	}
}

func TestCheckStatusSupervisorProbesDocs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs" {
			t.Errorf("expected supervisor probe on /docs, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{})
	status := c.CheckStatus(context.Background(), supervisorTarget(srv.URL))
	if status.State != StateOnline {
		t.Errorf("expected online, got %v", status.State)
	}
}

func TestCheckStatusDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{})
	status := c.CheckStatus(context.Background(), delegateTarget("service_catalog", srv.URL))
	if status.State != StateDegraded {
		t.Errorf("expected degraded, got %v", status.State)
	}
	if status.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected the probe status code, got %d", status.HTTPStatus)
	}
}

func TestCheckStatusOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(Config{})
	status := c.CheckStatus(context.Background(), delegateTarget("cisco_intersight", srv.URL))
	if status.State != StateOffline {
		t.Errorf("expected offline, got %v", status.State)
	}
}

func TestCheckAllOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{})
	targets := []Target{
		supervisorTarget(srv.URL),
		delegateTarget("cisco_intersight", srv.URL),
		delegateTarget("service_catalog", srv.URL),
	}

	statuses := c.CheckAll(context.Background(), targets)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	for i, status := range statuses {
		if status.Target.Name != targets[i].Name {
			t.Errorf("status %d: expected target %q, got %q", i, targets[i].Name, status.Target.Name)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateOnline, "online"},
		{StateDegraded, "degraded"},
		{StateOffline, "offline"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestFetchCard(t *testing.T) {
	card := a2a.NewCard("Cisco Intersight Agent", "An agent.", "http://localhost:8002")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != a2a.WellKnownCardPath {
			t.Errorf("expected card path, got %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(card)
	}))
	defer srv.Close()

	c := New(Config{})
	got, err := c.FetchCard(context.Background(), delegateTarget("cisco_intersight", srv.URL))
	if err != nil {
		t.Fatalf("FetchCard failed: %v", err)
	}
	if got.Name != "Cisco Intersight Agent" {
		t.Errorf("expected card name, got %q", got.Name)
	}
}

func TestFetchCardSupervisor(t *testing.T) {
	c := New(Config{})
	if _, err := c.FetchCard(context.Background(), supervisorTarget("http://localhost:8000")); err == nil {
		t.Error("expected an error for the supervisor")
	}
}

func TestBroadcast(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := a2a.NewAgentText("Echo", "pong")
		_ = json.NewEncoder(w).Encode(a2a.SendMessageResponse{Message: &reply})
	}))
	defer healthy.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	c := New(Config{})
	targets := []Target{
		delegateTarget("cisco_intersight", healthy.URL),
		delegateTarget("service_catalog", dead.URL),
	}

	results := c.Broadcast(context.Background(), targets, "ping")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Target.Name != "cisco_intersight" || results[1].Target.Name != "service_catalog" {
		t.Error("expected results in target order")
	}
	if results[0].Err != nil {
		t.Errorf("expected first target to succeed, got %v", results[0].Err)
	}
	if results[0].Response != "pong" {
		t.Errorf("expected reply from first target, got %q", results[0].Response)
	}
	if results[1].Err == nil {
		t.Error("expected second target to fail")
	}
}

// One agent past the send timeout must not hold up the reply from another.
func TestBroadcastSlowTarget(t *testing.T) {
	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := a2a.NewAgentText("Echo", "pong")
		_ = json.NewEncoder(w).Encode(a2a.SendMessageResponse{Message: &reply})
	}))
	defer fast.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer slow.Close()

	c := New(Config{SendTimeout: 50 * time.Millisecond})
	targets := []Target{
		delegateTarget("cisco_intersight", slow.URL),
		delegateTarget("service_catalog", fast.URL),
	}

	start := time.Now()
	results := c.Broadcast(context.Background(), targets, "ping")
	elapsed := time.Since(start)

	if results[0].Err == nil {
		t.Error("expected the slow target to time out")
	}
	if results[1].Err != nil {
		t.Errorf("expected the fast target to succeed, got %v", results[1].Err)
	}
	if results[1].Response != "pong" {
		t.Errorf("expected reply from the fast target, got %q", results[1].Response)
	}
	if elapsed > 2*time.Second {
		t.Errorf("broadcast took %v, the slow target blocked the others", elapsed)
	}
}
