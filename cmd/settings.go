package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/output"
	"github.com/tawahcm/soquy/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Short:   "View and change app settings",
	GroupID: "system",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.settings.Get()
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(s)
		}

		output.Title("Cài đặt")
		output.Info("  Số dư đầu kỳ tiền mặt:  %s", output.Money(s.OpeningCash))
		output.Info("  Số dư đầu kỳ ngân hàng: %s", output.Money(s.OpeningBank))
		if t := settings.CashLowThreshold(s); t > 0 {
			output.Info("  Ngưỡng tiền mặt thấp:   %s", output.Money(t))
		} else {
			output.Info("  Ngưỡng tiền mặt thấp:   tắt")
		}
		if d := settings.InactiveDaysThreshold(s); d > 0 {
			output.Info("  Nhắc sau số ngày nghỉ:  %d", d)
		} else {
			output.Info("  Nhắc sau số ngày nghỉ:  tắt")
		}
		output.Subtle("  Nhắc tiền mặt thấp: %s", s.CashLowMessage)
		output.Subtle("  Nhắc lâu chưa ghi sổ: %s", s.InactiveMessage)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more settings",
	Example: `  soquy settings set --opening-cash 500k --opening-bank 2tr
  soquy settings set --cash-low-threshold 200k --inactive-days 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.settings.Get()
		if err != nil {
			return err
		}

		changed := false
		for _, f := range []struct {
			name string
			dst  *int64
		}{
			{"opening-cash", &s.OpeningCash},
			{"opening-bank", &s.OpeningBank},
		} {
			if cmd.Flags().Changed(f.name) {
				v, _ := cmd.Flags().GetString(f.name)
				amount, err := parseAmount(v)
				if err != nil {
					return fmt.Errorf("--%s: %w", f.name, err)
				}
				*f.dst = amount
				changed = true
			}
		}
		if cmd.Flags().Changed("cash-low-threshold") {
			v, _ := cmd.Flags().GetString("cash-low-threshold")
			amount, err := parseThreshold(v)
			if err != nil {
				return fmt.Errorf("--cash-low-threshold: %w", err)
			}
			s.CashLowThreshold = &amount
			changed = true
		}
		if cmd.Flags().Changed("inactive-days") {
			v, _ := cmd.Flags().GetInt("inactive-days")
			if v < 0 {
				return fmt.Errorf("--inactive-days must be zero or more")
			}
			s.InactiveDaysThreshold = &v
			changed = true
		}
		if cmd.Flags().Changed("cash-low-message") {
			s.CashLowMessage, _ = cmd.Flags().GetString("cash-low-message")
			changed = true
		}
		if cmd.Flags().Changed("inactive-message") {
			s.InactiveMessage, _ = cmd.Flags().GetString("inactive-message")
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to change; pass at least one flag")
		}

		if _, err := a.settings.Set(s); err != nil {
			return err
		}
		output.Success("Settings saved")
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings, optionally wiping all transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		wipe, _ := cmd.Flags().GetBool("transactions")
		force, _ := cmd.Flags().GetBool("force")

		prompt := "Reset settings to defaults?"
		if wipe {
			prompt = "Reset settings AND permanently delete every transaction?"
		}
		if !force && !confirm(prompt) {
			output.Info("Cancelled")
			return nil
		}

		if _, err := a.settings.Set(settings.Defaults(a.identity.UserID)); err != nil {
			return err
		}
		output.Success("Settings reset to defaults")

		if wipe {
			if err := a.client.DeleteAllTransactions(a.identity.UserID); err != nil {
				return fmt.Errorf("wipe transactions: %w", err)
			}
			// Queued changes target records that no longer exist.
			if err := a.queue.Clear(); err != nil {
				return err
			}
			output.Success("All transactions deleted")
		}
		return nil
	},
}

// parseThreshold accepts the same shorthand as parseAmount plus a bare
// zero, which turns the alert off.
func parseThreshold(s string) (int64, error) {
	if strings.TrimSpace(s) == "0" {
		return 0, nil
	}
	return parseAmount(s)
}

func init() {
	settingsGetCmd.Flags().Bool("json", false, "output JSON")

	settingsSetCmd.Flags().String("opening-cash", "", "opening cash balance")
	settingsSetCmd.Flags().String("opening-bank", "", "opening bank balance")
	settingsSetCmd.Flags().String("cash-low-threshold", "", "warn when cash drops below this (0 turns the alert off)")
	settingsSetCmd.Flags().Int("inactive-days", 0, "remind after this many idle days")
	settingsSetCmd.Flags().String("cash-low-message", "", "low cash reminder text")
	settingsSetCmd.Flags().String("inactive-message", "", "inactivity reminder text")

	settingsResetCmd.Flags().Bool("transactions", false, "also delete every transaction")
	settingsResetCmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")

	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
