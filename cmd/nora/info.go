package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/norasys/nora/internal/client"
)

var infoAgent string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what each agent does",
	Long: `Print each agent's description and capabilities. When a delegate is
reachable its published agent card is shown as well.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoAgent, "agent", "a", "", "Show a single agent: supervisor, intersight or catalog")
}

type agentDetails struct {
	description  string
	capabilities string
}

var detailsByName = map[string]agentDetails{
	"supervisor": {
		description:  "Routes requests to appropriate specialized agents",
		capabilities: "Intelligent routing, multi-agent coordination",
	},
	"cisco_intersight": {
		description:  "Handles Cisco Intersight operations and greetings",
		capabilities: "Device management, policy configuration, system information",
	},
	"service_catalog": {
		description:  "Manages service catalog operations and inquiries",
		capabilities: "Service discovery, catalog browsing, service information",
	},
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targets := buildTargets(cfg)
	if infoAgent != "" {
		service, err := resolveService(infoAgent)
		if err != nil {
			return err
		}
		target, ok := findTarget(targets, service)
		if !ok {
			return fmt.Errorf("no target configured for %s", service)
		}
		targets = []client.Target{target}
	}

	cli := newCLIClient(cfg)

	fmt.Println("Available Agents:")
	for _, target := range targets {
		printAgentInfo(cmd, cli, target)
	}
	return nil
}

func printAgentInfo(cmd *cobra.Command, cli *client.Client, target client.Target) {
	details := detailsByName[target.Name]

	fmt.Println()
	color.New(color.FgCyan, color.Bold).Printf("%s\n", target.DisplayName)
	fmt.Printf("  URL:          %s\n", target.URL)
	fmt.Printf("  Description:  %s\n", details.description)
	fmt.Printf("  Capabilities: %s\n", details.capabilities)

	if target.Kind != client.KindDelegate {
		return
	}

	card, err := cli.FetchCard(cmd.Context(), target)
	if err != nil {
		fmt.Printf("  Card:         unavailable\n")
		return
	}

	fmt.Printf("  Card:         %s v%s\n", card.Name, card.Version)
	var skills []string
	for _, skill := range card.Skills {
		skills = append(skills, skill.Name)
	}
	if len(skills) > 0 {
		fmt.Printf("  Skills:       %s\n", strings.Join(skills, ", "))
	}
}
