package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/norasys/nora/internal/client"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check which agents are up",
	Long: `Probe every agent service and print a status table.

Delegates answer on their health endpoint, the supervisor on its docs
page. Probes time out after a few seconds and never hang.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cli := newCLIClient(cfg)

	fmt.Println("Agent Status:")
	for _, st := range cli.CheckAll(cmd.Context(), buildTargets(cfg)) {
		fmt.Printf("  %-24s %s  %s\n", st.Target.DisplayName, stateLabel(st), st.Target.URL)
	}
	return nil
}

// stateLabel renders a status as a fixed-width colored cell.
func stateLabel(st client.Status) string {
	switch st.State {
	case client.StateOnline:
		return color.GreenString("%-10s", "Online")
	case client.StateDegraded:
		return color.YellowString("%-10s", fmt.Sprintf("HTTP %d", st.HTTPStatus))
	default:
		return color.RedString("%-10s", "Offline")
	}
}
