package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/norasys/nora/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Open an interactive chat session",
	Long: `Open a chat TUI connected to the agents.

Inside the session:
  exit, quit, bye   end the session
  switch [name]     change which agent you talk to
  status            check which agents are up
  help              list the commands`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cli := newCLIClient(cfg)

	// Suppress log output while the TUI owns the terminal
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	program, _ := tui.NewChatProgram(cli, buildTargets(cfg))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
