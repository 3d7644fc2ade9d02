package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/config"
	"github.com/tawahcm/soquy/internal/output"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Probe connectivity and sync queued changes automatically",
	GroupID: "system",
	Long: `Keeps running, probing the server on an interval. Every time the
connection comes back after an outage, queued offline changes are
replayed immediately. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		interval := config.WatchInterval()
		if cmd.Flags().Changed("interval") {
			interval, _ = cmd.Flags().GetDuration("interval")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		output.Info("Watching connectivity every %s (Ctrl-C to stop)", interval)
		a.monitor.Watch(ctx, interval, func() {
			sum := a.tryResync()
			if sum == nil {
				return
			}
			if sum.Synced > 0 {
				output.Success("Back online: synced %d queued change(s)", sum.Synced)
			}
			if sum.Dropped > 0 {
				output.Warning("Dropped %d change(s) that can no longer apply", sum.Dropped)
			}
		})
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "probe interval (default from config, 30s)")
	rootCmd.AddCommand(watchCmd)
}
