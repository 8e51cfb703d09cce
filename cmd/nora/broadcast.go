package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var broadcastAll bool

var broadcastCmd = &cobra.Command{
	Use:   "broadcast <message>",
	Short: "Send one message to every delegate at once",
	Long: `Send the same message to all delegate agents concurrently and print
every reply. Failures are reported per agent and never block the others.

With --all the supervisor receives the message too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBroadcast,
}

func init() {
	broadcastCmd.Flags().BoolVar(&broadcastAll, "all", false, "Include the supervisor")
}

func runBroadcast(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targets := buildTargets(cfg)
	if !broadcastAll {
		targets = delegateTargets(targets)
	}

	cli := newCLIClient(cfg)
	message := strings.Join(args, " ")

	fmt.Printf("Broadcasting to %d agents...\n", len(targets))
	for _, res := range cli.Broadcast(cmd.Context(), targets, message) {
		fmt.Println()
		if res.Err != nil {
			color.Red("%s: %v", res.Target.DisplayName, res.Err)
			continue
		}
		fmt.Println(replyPanel(res.Target.DisplayName, res.Response))
	}
	return nil
}
