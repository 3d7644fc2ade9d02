package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/output"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Short:   "Replay queued offline changes now",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.queue.Len()
		if err != nil {
			return err
		}
		if n == 0 {
			output.Info("Nothing to sync")
			return nil
		}

		sum, err := a.runner.Run()
		if err != nil {
			return err
		}
		if sum.Skipped {
			output.Info("A sync pass is already running")
			return nil
		}

		if sum.Synced > 0 {
			output.Success("Synced %d transaction(s)", sum.Synced)
		}
		if sum.Dropped > 0 {
			output.Warning("Dropped %d change(s) that can no longer apply", sum.Dropped)
		}
		if sum.Remaining > 0 {
			output.Warning("%d change(s) still waiting; server unreachable", sum.Remaining)
			return fmt.Errorf("sync incomplete")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
