package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/norasys/nora/internal/a2a"
	"github.com/norasys/nora/internal/agents/catalog"
	"github.com/norasys/nora/internal/agents/intersight"
	"github.com/norasys/nora/internal/config"
	"github.com/norasys/nora/internal/llm"
	"github.com/norasys/nora/internal/supervisor"
)

var serveCmd = &cobra.Command{
	Use:   "serve <supervisor|intersight|catalog>",
	Short: "Run one agent service in the foreground",
	Long: `Run a single agent service until interrupted.

The supervisor exposes /agent/chat and routes requests to the delegates.
Delegates expose the agent-to-agent message endpoint, a health check and
their agent card. All services shut down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	service, err := resolveService(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newServiceLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	completer, err := buildCompleter(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch service {
	case serviceIntersight:
		agent := intersight.NewAgent(intersight.AgentConfig{
			Completer: completer,
			URL:       cfg.Agents.Intersight.URL,
			Logger:    logger,
		})
		srv := a2a.NewServer(a2a.ServerConfig{Executor: agent, Logger: logger})
		return runServer(ctx, logger, service, cfg.Agents.Intersight.Listen, srv.Routes())
	case serviceCatalog:
		agent := catalog.NewAgent(catalog.AgentConfig{
			Completer: completer,
			URL:       cfg.Agents.Catalog.URL,
			Logger:    logger,
		})
		srv := a2a.NewServer(a2a.ServerConfig{Executor: agent, Logger: logger})
		return runServer(ctx, logger, service, cfg.Agents.Catalog.Listen, srv.Routes())
	default:
		return serveSupervisor(ctx, cfg, completer, logger)
	}
}

func serveSupervisor(ctx context.Context, cfg *config.Config, completer *llm.Client, logger *zap.Logger) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return fmt.Errorf("build delegate registry: %w", err)
	}

	engine := supervisor.NewEngine(supervisor.EngineConfig{
		Completer: completer,
		Registry:  registry,
		Timeout:   cfg.Timeouts.Completion,
		Logger:    logger,
	})
	dispatcher := supervisor.NewDispatcher(supervisor.DispatcherConfig{
		Caller:   a2a.NewClient(a2a.WithTimeout(cfg.Timeouts.Dispatch)),
		Registry: registry,
		Timeout:  cfg.Timeouts.Dispatch,
		Logger:   logger,
	})
	loop := supervisor.NewLoop(supervisor.LoopConfig{
		Engine:     engine,
		Dispatcher: dispatcher,
		MaxCycles:  cfg.Supervisor.MaxCycles,
		Logger:     logger,
	})
	srv := supervisor.NewServer(supervisor.ServerConfig{Loop: loop, Logger: logger})

	return runServer(ctx, logger, serviceSupervisor, cfg.Supervisor.Listen, srv.Routes())
}

func buildRegistry(cfg *config.Config) (*supervisor.Registry, error) {
	if cfg.Agents.RegistryFile != "" {
		return supervisor.LoadRegistryFile(cfg.Agents.RegistryFile, cfg.Supervisor.DefaultDelegate)
	}
	return supervisor.NewRegistry(
		supervisor.DefaultDelegates(cfg.Agents.Intersight.URL, cfg.Agents.Catalog.URL),
		cfg.Supervisor.DefaultDelegate,
	)
}

func buildCompleter(cfg *config.Config) (*llm.Client, error) {
	clientCfg := llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
	}
	if !cfg.Anthropic.UseBedrock {
		key, _, err := config.ResolveAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		clientCfg.APIKey = key
	}

	completer, err := llm.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}
	return completer, nil
}

// runServer serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func runServer(ctx context.Context, logger *zap.Logger, name, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("service listening", zap.String("service", name), zap.String("addr", addr))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.String("service", name))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", name, err)
	}
	return <-errCh
}
