package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/norasys/nora/internal/launcher"
)

var startAgents []string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Launch all agent services",
	Long: `Launch the delegate agents and then the supervisor as child processes
of this binary, watch them, and stop them all on Ctrl+C.

Delegates come up first so the supervisor never routes into a void. Each
child runs 'nora serve <service>'; stopping sends SIGTERM and kills
anything still alive after the grace period.`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringSliceVar(&startAgents, "agent", nil, "Launch only the named services (repeatable)")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newToolLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	services := []launcher.Service{
		{Name: serviceIntersight, DisplayName: displayIntersight, URL: cfg.Agents.Intersight.URL},
		{Name: serviceCatalog, DisplayName: displayCatalog, URL: cfg.Agents.Catalog.URL},
		{Name: serviceSupervisor, DisplayName: displaySupervisor, URL: cfg.Supervisor.URL},
	}
	if len(startAgents) > 0 {
		services, err = filterServices(services, startAgents)
		if err != nil {
			return err
		}
	}

	l, err := launcher.New(launcher.Config{
		Services:  services,
		Stagger:   cfg.Launcher.Stagger,
		StopGrace: cfg.Launcher.StopGrace,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return l.Run(ctx)
}

func filterServices(services []launcher.Service, names []string) ([]launcher.Service, error) {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		service, err := resolveService(name)
		if err != nil {
			return nil, err
		}
		keep[service] = true
	}

	var out []launcher.Service
	for _, svc := range services {
		if keep[svc.Name] {
			out = append(out, svc)
		}
	}
	return out, nil
}
