package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatAgent string

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one message to an agent and print the reply",
	Long: `Send a single message and print the reply.

By default the message goes to the supervisor, which routes it to the
right delegate. Use --agent to talk to a delegate directly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatAgent, "agent", "a", serviceSupervisor, "Agent to talk to: supervisor, intersight or catalog")
}

func runChat(cmd *cobra.Command, args []string) error {
	service, err := resolveService(chatAgent)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	target, ok := findTarget(buildTargets(cfg), service)
	if !ok {
		return fmt.Errorf("no target configured for %s", service)
	}

	cli := newCLIClient(cfg)
	reply, err := cli.Send(cmd.Context(), target, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("talking to %s: %w", target.DisplayName, err)
	}

	fmt.Println(replyPanel(target.DisplayName, reply))
	return nil
}
