package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/ledger"
	"github.com/tawahcm/soquy/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the merged ledger, newest first",
	GroupID: "ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// Any chance to list is a chance to drain the queue first, so the
		// confirmed fetch below already includes freshly synced rows.
		if sum := a.tryResync(); sum != nil && sum.Synced > 0 {
			output.Subtle("Synced %d pending transaction(s)", sum.Synced)
		}

		entries, fromCache, err := a.entries()
		if err != nil {
			return err
		}

		if search, _ := cmd.Flags().GetString("search"); search != "" {
			entries = ledger.Search(entries, search)
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(entries)
		}

		if fromCache {
			output.Warning("Offline: showing last synced snapshot plus local changes")
		}
		if len(entries) == 0 {
			output.Info("No transactions yet. Record one with: soquy add")
			return nil
		}
		for i := range entries {
			output.Info("%s", output.FormatEntry(&entries[i]))
		}

		pendingCount := 0
		for _, e := range entries {
			if e.Pending {
				pendingCount++
			}
		}
		if pendingCount > 0 {
			output.Subtle("%d change(s) waiting to sync", pendingCount)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "filter by note, category or wallet text")
	listCmd.Flags().IntP("limit", "l", 0, "show at most N rows")
	listCmd.Flags().Bool("json", false, "output JSON")
	rootCmd.AddCommand(listCmd)
}
