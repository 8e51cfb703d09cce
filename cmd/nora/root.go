package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	rootConfigPath string
	rootVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "nora",
	Short: "Multi-Agent NORA System",
	Long: `Nora runs a small team of cooperating AI agents: a supervisor that
routes requests and specialist delegates that answer them.

With no arguments, opens an interactive chat session with the supervisor.

Core capabilities:
- Routes each request to the right specialist agent
- Speaks a JSON message protocol between agents over HTTP
- Launches and watches all agent services from a single binary
- Talks to any agent directly for debugging`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to a config file (overrides the standard search)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
}
