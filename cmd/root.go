// Package cmd defines and implements the CLI commands for the tracker
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Tracks firmware updates across realme's regional support pages.",
		Long: `tracker scrapes the software-update pages of each configured region,
detects newly published firmware versions, announces them to the Telegram
channel, and maintains the permanent per-device version archive published
through the data repository.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml when present)")

	cmd.AddCommand(newTrackCmd())
	cmd.AddCommand(newArchiveCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
