// Package cmd implements the soquy CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var version string

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "soquy",
	Short: "Cash ledger for small food businesses",
	Long: `soquy - Sổ quỹ thu chi for small food businesses.

Records income, expenses and wallet transfers against a hosted store,
keeps working offline by queueing writes locally, and replays the queue
automatically when connectivity returns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "ledger", Title: "Ledger Commands:"},
		&cobra.Group{ID: "report", Title: "Report Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}
