package launcher

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func testServices() []Service {
	return []Service{
		{Name: "cisco_intersight", DisplayName: "Cisco Intersight Agent", URL: "http://localhost:8002"},
		{Name: "service_catalog", DisplayName: "Service Catalog Agent", URL: "http://localhost:8001"},
	}
}

func TestNewNoServices(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected an error for an empty service list")
	}
}

func TestRunAndShutdown(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Config{
		Services: testServices(),
		Command: func(svc Service) (string, []string) {
			return "sleep", []string{"60"}
		},
		Stagger:   10 * time.Millisecond,
		StopGrace: time.Second,
		Out:       &out,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- l.Run(ctx)
	}()

	// Give both services time to come up, then shut down.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-runErr:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("launcher did not stop after cancellation")
	}

	output := out.String()
	for _, want := range []string{
		"Starting Cisco Intersight Agent",
		"Cisco Intersight Agent started",
		"Service Catalog Agent started",
		"All services started!",
		"All services stopped.",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\noutput:\n%s", want, output)
		}
	}
}

func TestRunAllChildrenFail(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Config{
		Services: testServices(),
		Command: func(svc Service) (string, []string) {
			return "false", nil
		},
		Stagger: 50 * time.Millisecond,
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := l.Run(context.Background()); err == nil {
		t.Error("expected an error when no service survives startup")
	}
	if !strings.Contains(out.String(), "exited during startup") {
		t.Errorf("expected startup failure output, got:\n%s", out.String())
	}
}

func TestRunMissingBinary(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Config{
		Services: testServices()[:1],
		Command: func(svc Service) (string, []string) {
			return "/nonexistent/binary", nil
		},
		Stagger: 10 * time.Millisecond,
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := l.Run(context.Background()); err == nil {
		t.Error("expected an error when the binary cannot start")
	}
	if !strings.Contains(out.String(), "failed to start") {
		t.Errorf("expected start failure output, got:\n%s", out.String())
	}
}

func TestStopKillsStubbornChildren(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Config{
		Services: testServices()[:1],
		Command: func(svc Service) (string, []string) {
			return "sh", []string{"-c", "trap '' TERM; sleep 60"}
		},
		Stagger:   10 * time.Millisecond,
		StopGrace: 100 * time.Millisecond,
		Out:       &out,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- l.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-runErr:
		if err != nil {
			t.Errorf("expected clean shutdown after kill, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("launcher did not kill a child that ignores SIGTERM")
	}
}
