package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/export"
	"github.com/tawahcm/soquy/internal/ledger"
	"github.com/tawahcm/soquy/internal/output"
	"github.com/tawahcm/soquy/internal/reconcile"
)

var reconcileCmd = &cobra.Command{
	Use:     "reconcile <channel> <reported-amount>",
	Short:   "Compare a channel payout against the ledger",
	GroupID: "report",
	Args:    cobra.ExactArgs(2),
	Example: `  soquy reconcile grabfood 2450000 --period week
  soquy reconcile shopeefood 1tr8 --period week --post
  soquy reconcile bank 5000000 --period month --export`,
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := reconcile.ParseChannel(args[0])
		if err != nil {
			return err
		}
		reported, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		periodFlag, _ := cmd.Flags().GetString("period")
		offset, _ := cmd.Flags().GetInt("offset")
		period, err := resolvePeriod(periodFlag, offset)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, fromCache, err := a.entries()
		if err != nil {
			return err
		}
		if fromCache {
			output.Warning("Offline: reconciling against last synced snapshot plus local changes")
		}

		from, to := ledger.PeriodRange(period, offset, time.Now())
		rep := reconcile.Run(entries, channel, from, to, reported)

		output.Title("Đối soát %s (%s - %s)", channel,
			from.Format("02/01"), to.AddDate(0, 0, -1).Format("02/01"))
		output.Info("  Kênh báo:     %s", output.Money(rep.Reported))
		output.Info("  Sổ ghi nhận:  %s (%d giao dịch)", output.Money(rep.Recorded), len(rep.Matched))
		if rep.Balanced() {
			output.Success("  Khớp sổ, không chênh lệch")
		} else {
			output.Warning("  Chênh lệch:   %s", output.Money(rep.Difference))
		}

		if doExport, _ := cmd.Flags().GetBool("export"); doExport {
			path := export.DefaultFilename("doisoat-"+string(channel), time.Now())
			if err := export.Reconciliation(path, rep); err != nil {
				return err
			}
			output.Success("Exported report to %s", path)
		}

		if post, _ := cmd.Flags().GetBool("post"); post {
			res, err := reconcile.PostAdjustment(a.gateway, a.identity.UserID, rep)
			if err != nil {
				return err
			}
			if res == nil {
				output.Info("Nothing to post")
				return nil
			}
			if res.Pending {
				output.Warning("Adjustment saved offline, will sync when back online %s", output.PendingTag())
				return nil
			}
			output.Success("Posted adjustment #%d", res.Tx.ID)
		}
		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringP("period", "p", "week", "day, week or month")
	reconcileCmd.Flags().IntP("offset", "o", 0, "periods back from now")
	reconcileCmd.Flags().Bool("post", false, "record the difference as an adjustment entry")
	reconcileCmd.Flags().Bool("export", false, "write the report to an Excel file")
	rootCmd.AddCommand(reconcileCmd)
}
