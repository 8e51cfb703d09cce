package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/norasys/nora/internal/client"
	"github.com/norasys/nora/internal/config"
)

// Canonical service names accepted by serve, start and the --agent flags.
const (
	serviceSupervisor = "supervisor"
	serviceIntersight = "intersight"
	serviceCatalog    = "catalog"
)

const (
	displaySupervisor = "Supervisor Agent"
	displayIntersight = "Cisco Intersight Agent"
	displayCatalog    = "Service Catalog Agent"
)

const serviceChoices = "supervisor, intersight or catalog"

// loadConfig loads configuration from --config when given, otherwise from
// the standard locations.
func loadConfig() (*config.Config, error) {
	if rootConfigPath != "" {
		cfg, err := config.LoadFromPath(rootConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", rootConfigPath, err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveService maps a user-supplied service name to its canonical form.
// Both the short CLI names and the full registry names are accepted.
func resolveService(name string) (string, error) {
	switch strings.ToLower(name) {
	case serviceSupervisor:
		return serviceSupervisor, nil
	case serviceIntersight, "cisco_intersight":
		return serviceIntersight, nil
	case serviceCatalog, "service_catalog":
		return serviceCatalog, nil
	default:
		return "", fmt.Errorf("unknown service %q (want %s)", name, serviceChoices)
	}
}

// wireName maps a canonical service name to the identifier used on the wire
// and in the delegate registry.
func wireName(service string) string {
	switch service {
	case serviceIntersight:
		return "cisco_intersight"
	case serviceCatalog:
		return "service_catalog"
	default:
		return "supervisor"
	}
}

// buildTargets lists the addressable agents in display order.
func buildTargets(cfg *config.Config) []client.Target {
	return []client.Target{
		{Name: "supervisor", DisplayName: displaySupervisor, URL: cfg.Supervisor.URL, Kind: client.KindSupervisor},
		{Name: "cisco_intersight", DisplayName: displayIntersight, URL: cfg.Agents.Intersight.URL, Kind: client.KindDelegate},
		{Name: "service_catalog", DisplayName: displayCatalog, URL: cfg.Agents.Catalog.URL, Kind: client.KindDelegate},
	}
}

// findTarget picks the target for a canonical service name.
func findTarget(targets []client.Target, service string) (client.Target, bool) {
	name := wireName(service)
	for _, t := range targets {
		if t.Name == name {
			return t, true
		}
	}
	return client.Target{}, false
}

// delegateTargets filters the roster down to delegate agents.
func delegateTargets(targets []client.Target) []client.Target {
	var out []client.Target
	for _, t := range targets {
		if t.Kind == client.KindDelegate {
			out = append(out, t)
		}
	}
	return out
}

// newCLIClient builds the client used by the user-facing commands.
func newCLIClient(cfg *config.Config) *client.Client {
	return client.New(client.Config{
		SendTimeout:  cfg.Timeouts.Dispatch,
		ProbeTimeout: cfg.Timeouts.Probe,
	})
}

// newServiceLogger builds the structured logger used by the serve path.
func newServiceLogger() (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	if rootVerbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := logCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// newToolLogger builds the logger for CLI-side tooling. It stays silent
// unless --verbose is set so command output remains clean.
func newToolLogger() (*zap.Logger, error) {
	if !rootVerbose {
		return zap.NewNop(), nil
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

var (
	replyTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	replyBodyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(76)
)

// replyPanel renders an agent reply as a titled block.
func replyPanel(title, body string) string {
	return replyTitleStyle.Render(title) + "\n" + replyBodyStyle.Render(body)
}
