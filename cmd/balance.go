package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/ledger"
	"github.com/tawahcm/soquy/internal/output"
	"github.com/tawahcm/soquy/internal/settings"
)

var balanceCmd = &cobra.Command{
	Use:     "balance",
	Aliases: []string{"bal"},
	Short:   "Show wallet balances and active reminders",
	GroupID: "report",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, fromCache, err := a.entries()
		if err != nil {
			return err
		}

		appSettings, err := a.settings.Get()
		if err != nil {
			// Balances still make sense with default opening balances when
			// the settings row is unreachable.
			appSettings = settings.Defaults(a.identity.UserID)
			output.Warning("Could not load settings, using defaults: %v", err)
		}

		b := ledger.ComputeBalances(appSettings, entries)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(b)
		}

		if fromCache {
			output.Warning("Offline: balances from last synced snapshot plus local changes")
		}
		output.Title("Số dư")
		output.Info("  Tiền mặt:   %s", output.Money(b.Cash))
		output.Info("  Ngân hàng:  %s", output.Money(b.Bank))
		output.Info("  Tổng:       %s", output.Money(b.Total()))
		output.Subtle("  Thu %s / Chi %s", output.Money(b.Income), output.Money(b.Expense))

		for _, alert := range settings.Evaluate(appSettings, b.Cash, ledger.LastActivity(entries), time.Now()) {
			output.Warning("%s", alert.Message)
		}
		return nil
	},
}

func init() {
	balanceCmd.Flags().Bool("json", false, "output JSON")
	rootCmd.AddCommand(balanceCmd)
}
