// Package launcher starts and supervises the agent services as child
// processes of the CLI binary. Each service is the same executable running
// its serve command, so a single installed binary brings up the whole
// system.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Service is one child process the launcher manages.
type Service struct {
	// Name is passed to the serve command to select the service.
	Name string
	// DisplayName is the human-readable name used in status output.
	DisplayName string
	// URL is where the service will be reachable once up.
	URL string
}

const (
	defaultStagger   = 2 * time.Second
	defaultStopGrace = 5 * time.Second
)

// Launcher runs a set of services and keeps them up until the context is
// cancelled.
type Launcher struct {
	services  []Service
	command   func(Service) (string, []string)
	stagger   time.Duration
	stopGrace time.Duration
	out       io.Writer
	logger    *zap.Logger

	children []*child
}

// Config contains configuration for creating a Launcher.
type Config struct {
	Services []Service
	// ExecPath is the binary to re-execute for each service. Empty means
	// the current executable.
	ExecPath string
	// Command overrides the child invocation entirely. When set, ExecPath
	// is ignored.
	Command func(Service) (string, []string)
	// Stagger is the startup delay between services (0 = default 2s).
	Stagger time.Duration
	// StopGrace is how long children get to exit after SIGTERM before
	// being killed (0 = default 5s).
	StopGrace time.Duration
	// Out receives status lines. Nil means stdout.
	Out    io.Writer
	Logger *zap.Logger
}

type child struct {
	service Service
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

func (c *child) running() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// New creates a launcher for the given services.
func New(cfg Config) (*Launcher, error) {
	if len(cfg.Services) == 0 {
		return nil, fmt.Errorf("no services to launch")
	}

	command := cfg.Command
	if command == nil {
		execPath := cfg.ExecPath
		if execPath == "" {
			path, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("resolving executable: %w", err)
			}
			execPath = path
		}
		command = func(svc Service) (string, []string) {
			return execPath, []string{"serve", svc.Name}
		}
	}

	stagger := cfg.Stagger
	if stagger == 0 {
		stagger = defaultStagger
	}
	stopGrace := cfg.StopGrace
	if stopGrace == 0 {
		stopGrace = defaultStopGrace
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Launcher{
		services:  cfg.Services,
		command:   command,
		stagger:   stagger,
		stopGrace: stopGrace,
		out:       out,
		logger:    logger,
	}, nil
}

// Run starts every service, watches the children, and stops them all when
// ctx is cancelled. It returns once every child has exited.
func (l *Launcher) Run(ctx context.Context) error {
	exits := make(chan *child, len(l.services))

	for _, svc := range l.services {
		l.startService(svc, exits)
	}

	if len(l.children) == 0 {
		return fmt.Errorf("no services started")
	}

	color.New(color.FgGreen, color.Bold).Fprintf(l.out, "\nAll services started!\n")
	for _, c := range l.children {
		fmt.Fprintf(l.out, "  %s  %s\n", c.service.DisplayName, c.service.URL)
	}
	color.New(color.FgYellow).Fprintln(l.out, "\nPress Ctrl+C to stop all services")

	for {
		select {
		case <-ctx.Done():
			l.stopAll()
			return nil
		case c := <-exits:
			color.New(color.FgRed).Fprintf(l.out, "%s stopped unexpectedly\n", c.service.DisplayName)
			l.logger.Warn("service exited",
				zap.String("service", c.service.Name),
				zap.Error(c.waitErr))
			if !l.anyRunning() {
				return fmt.Errorf("all services stopped")
			}
		}
	}
}

// startService spawns one child and waits out the stagger window to catch
// immediate failures.
func (l *Launcher) startService(svc Service, exits chan<- *child) {
	color.New(color.FgBlue).Fprintf(l.out, "Starting %s at %s...\n", svc.DisplayName, svc.URL)

	name, args := l.command(svc)
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		color.New(color.FgRed).Fprintf(l.out, "✗ %s failed to start: %v\n", svc.DisplayName, err)
		return
	}

	c := &child{service: svc, cmd: cmd, done: make(chan struct{})}
	go func() {
		c.waitErr = cmd.Wait()
		close(c.done)
	}()

	select {
	case <-c.done:
		color.New(color.FgRed).Fprintf(l.out, "✗ %s exited during startup: %v\n", svc.DisplayName, c.waitErr)
		return
	case <-time.After(l.stagger):
	}

	color.New(color.FgGreen).Fprintf(l.out, "✓ %s started\n", svc.DisplayName)
	l.children = append(l.children, c)

	// Only accepted children report exits to the watch loop.
	go func() {
		<-c.done
		exits <- c
	}()
}

func (l *Launcher) anyRunning() bool {
	for _, c := range l.children {
		if c.running() {
			return true
		}
	}
	return false
}

// stopAll asks every child to terminate and kills the stragglers after the
// grace period.
func (l *Launcher) stopAll() {
	color.New(color.FgYellow).Fprintln(l.out, "\nShutting down all services...")

	for _, c := range l.children {
		if !c.running() {
			continue
		}
		if err := c.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			l.logger.Warn("signalling service failed",
				zap.String("service", c.service.Name),
				zap.Error(err))
		}
	}

	deadline := time.After(l.stopGrace)
	for _, c := range l.children {
		select {
		case <-c.done:
		case <-deadline:
			_ = c.cmd.Process.Kill()
			<-c.done
		}
	}

	color.New(color.FgGreen).Fprintln(l.out, "All services stopped.")
}
