package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a transaction",
	GroupID: "ledger",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var before *models.Transaction
		if entry, err := a.findEntry(ref); err == nil && entry != nil {
			tx := entry.Tx
			before = &tx
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			prompt := fmt.Sprintf("Delete transaction #%s?", ref)
			if before != nil {
				prompt = fmt.Sprintf("Delete %s %s (%s)?",
					before.Type, output.Money(before.Amount), before.Category)
			}
			if !confirm(prompt) {
				output.Info("Cancelled")
				return nil
			}
		}

		res, err := a.gateway.Delete(ref, before)
		if err != nil {
			return err
		}
		if res.Pending {
			output.Warning("Delete saved offline, will sync when back online %s", output.PendingTag())
			return nil
		}
		output.Success("Deleted #%s", ref)
		return nil
	},
}

// confirm asks a y/N question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	deleteCmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
