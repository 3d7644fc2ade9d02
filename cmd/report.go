package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/export"
	"github.com/tawahcm/soquy/internal/ledger"
	"github.com/tawahcm/soquy/internal/output"
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Income/expense breakdown for a day, week or month",
	GroupID: "report",
	Example: `  soquy report --period week
  soquy report --period month --offset -1
  soquy report --period day --export`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if search, _ := cmd.Flags().GetString("search"); search != "" {
			entries = ledger.Search(entries, search)
		}

		chart := ledger.BuildChart(entries, period, offset, time.Now())

		if doExport, _ := cmd.Flags().GetBool("export"); doExport {
			path := export.DefaultFilename("baocao", time.Now())
			inRange := ledger.Filter(entries, chart.Start, chart.End)
			if err := export.Ledger(path, inRange); err != nil {
				return err
			}
			output.Success("Exported %d row(s) to %s", len(inRange), path)
			return nil
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(chart)
		}

		if fromCache {
			output.Warning("Offline: report from last synced snapshot plus local changes")
		}
		output.Title("%s", chart.Title)

		maxVal := int64(0)
		for _, b := range chart.Buckets {
			if b.Income > maxVal {
				maxVal = b.Income
			}
			if b.Expense > maxVal {
				maxVal = b.Expense
			}
		}
		for _, b := range chart.Buckets {
			if b.Income == 0 && b.Expense == 0 {
				continue
			}
			output.Info("  %-7s thu %-12s %s", b.Label, output.Money(b.Income), output.Bar(b.Income, maxVal, 24))
			output.Info("  %-7s chi %-12s %s", "", output.Money(b.Expense), output.Bar(b.Expense, maxVal, 24))
		}
		output.Info("  Tổng thu:  %s", output.Money(chart.Income))
		output.Info("  Tổng chi:  %s", output.Money(chart.Expense))
		output.Info("  Chênh lệch: %s", output.Money(chart.Net()))
		return nil
	},
}

// resolvePeriod validates the shared --period/--offset flag pair.
func resolvePeriod(name string, offset int) (ledger.Period, error) {
	period := ledger.Period(name)
	if !period.Valid() {
		return "", fmt.Errorf("unknown period %q (expected day, week or month)", name)
	}
	if offset > 0 {
		return "", fmt.Errorf("offset must be zero or negative; the future has no transactions")
	}
	return period, nil
}

func init() {
	reportCmd.Flags().StringP("period", "p", "day", "day, week or month")
	reportCmd.Flags().StringP("search", "s", "", "filter by note, category or wallet text")
	reportCmd.Flags().IntP("offset", "o", 0, "periods back from now (0 current, -1 previous)")
	reportCmd.Flags().Bool("export", false, "write the period's rows to an Excel file")
	reportCmd.Flags().Bool("json", false, "output JSON")
	rootCmd.AddCommand(reportCmd)
}
