package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/output"
)

var pendingCmd = &cobra.Command{
	Use:     "pending",
	Short:   "Inspect the offline change queue",
	GroupID: "system",
}

var pendingListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show queued changes in replay order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		queued, err := a.queue.ListAll()
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(queued)
		}
		if len(queued) == 0 {
			output.Info("Queue is empty")
			return nil
		}

		for i, m := range queued {
			switch m.Op {
			case models.OpCreate:
				output.Info("%d. create %s %s %s  #%s", i+1,
					output.FormatType(m.Payload.Type), output.Money(m.Payload.Amount),
					m.Payload.Category, m.CorrelationID)
			case models.OpUpdate:
				output.Info("%d. update #%d  %s", i+1, m.TargetID, m.CorrelationID)
			case models.OpDelete:
				output.Info("%d. delete #%d  %s", i+1, m.TargetID, m.CorrelationID)
			}
			output.Subtle("   queued %s", m.EnqueuedAt.Format("02/01/2006 15:04"))
		}
		return nil
	},
}

var pendingClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard every queued change without replaying it",
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
			output.Info("Queue is already empty")
			return nil
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !confirm("Discard all queued changes? They were never confirmed by the server.") {
			output.Info("Cancelled")
			return nil
		}
		if err := a.queue.Clear(); err != nil {
			return err
		}
		output.Success("Discarded %d queued change(s)", n)
		return nil
	},
}

func init() {
	pendingListCmd.Flags().Bool("json", false, "output JSON")
	pendingClearCmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
	pendingCmd.AddCommand(pendingListCmd, pendingClearCmd)
	rootCmd.AddCommand(pendingCmd)
}
