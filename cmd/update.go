package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/output"
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Aliases: []string{"edit"},
	Short:   "Edit a transaction",
	GroupID: "ledger",
	Args:    cobra.ExactArgs(1),
	Example: `  soquy update 142 --amount 60000
  soquy update 142 --category "Điện nước" --note "hóa đơn tháng 8"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := args[0]

		patch := &models.TransactionPatch{}
		if cmd.Flags().Changed("type") {
			v, _ := cmd.Flags().GetString("type")
			t := models.TxType(strings.ToLower(v))
			if !t.Valid() {
				return fmt.Errorf("unknown transaction type %q", v)
			}
			patch.Type = &t
		}
		if cmd.Flags().Changed("amount") {
			v, _ := cmd.Flags().GetString("amount")
			amount, err := parseAmount(v)
			if err != nil {
				return err
			}
			patch.Amount = &amount
		}
		for _, f := range []struct {
			name string
			dst  **string
		}{
			{"category", &patch.Category},
			{"wallet", &patch.Wallet},
			{"from", &patch.FromWallet},
			{"to", &patch.ToWallet},
			{"note", &patch.Note},
		} {
			if cmd.Flags().Changed(f.name) {
				v, _ := cmd.Flags().GetString(f.name)
				*f.dst = &v
			}
		}
		if patch.IsZero() {
			return fmt.Errorf("nothing to change; pass at least one field flag")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// Prior state feeds the audit trail; a failed lookup (offline with
		// a cold cache) just means the audit row lacks a before snapshot.
		var before *models.Transaction
		if entry, err := a.findEntry(ref); err == nil && entry != nil {
			tx := entry.Tx
			before = &tx
		}

		res, err := a.gateway.Update(ref, patch, before)
		if err != nil {
			return err
		}
		if res.Pending {
			output.Warning("Edit saved offline, will sync when back online %s", output.PendingTag())
			return nil
		}
		output.Success("Updated #%d", res.Tx.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().String("type", "", "change the transaction type")
	updateCmd.Flags().String("amount", "", "change the amount")
	updateCmd.Flags().StringP("category", "c", "", "change the category")
	updateCmd.Flags().StringP("wallet", "w", "", "change the wallet")
	updateCmd.Flags().String("from", "", "change the transfer source wallet")
	updateCmd.Flags().String("to", "", "change the transfer destination wallet")
	updateCmd.Flags().StringP("note", "n", "", "change the note")
	rootCmd.AddCommand(updateCmd)
}
