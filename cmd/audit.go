package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/output"
)

var auditCmd = &cobra.Command{
	Use:     "audit",
	Short:   "Show recent edits and deletions",
	GroupID: "report",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		days, _ := cmd.Flags().GetInt("days")
		entries, err := a.auditor.Recent(days)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(entries)
		}
		if len(entries) == 0 {
			output.Info("No edits or deletions in the last %d day(s)", days)
			return nil
		}

		for _, e := range entries {
			when := e.At.Format("02/01 15:04")
			switch e.Action {
			case models.AuditDelete:
				if e.Before != nil {
					output.Info("%s  deleted #%d  %s %s %s", when, e.TargetID,
						output.FormatType(e.Before.Type), output.Money(e.Before.Amount), e.Before.Category)
				} else {
					output.Info("%s  deleted #%d", when, e.TargetID)
				}
			case models.AuditUpdate:
				output.Info("%s  updated #%d", when, e.TargetID)
				if e.Before != nil && e.After != nil {
					if e.Before.Amount != e.After.Amount {
						output.Subtle("    amount: %s -> %s",
							output.Money(e.Before.Amount), output.Money(e.After.Amount))
					}
					if e.Before.Category != e.After.Category {
						output.Subtle("    category: %q -> %q", e.Before.Category, e.After.Category)
					}
					if e.Before.Note != e.After.Note {
						output.Subtle("    note: %q -> %q", e.Before.Note, e.After.Note)
					}
				}
			}
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().IntP("days", "d", 30, "trailing window in days")
	auditCmd.Flags().Bool("json", false, "output JSON")
	rootCmd.AddCommand(auditCmd)
}
