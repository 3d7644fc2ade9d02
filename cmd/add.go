package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/output"
)

var addCmd = &cobra.Command{
	Use:     "add <income|expense|transfer> <amount>",
	Short:   "Record a transaction",
	GroupID: "ledger",
	Args:    cobra.ExactArgs(2),
	Example: `  soquy add expense 45000 --category "Nguyên liệu" --note "rau củ"
  soquy add income 1tr2 --category GrabFood --wallet bank
  soquy add transfer 500k --from bank --to cash`,
	RunE: func(cmd *cobra.Command, args []string) error {
		txType := models.TxType(strings.ToLower(args[0]))
		if !txType.Valid() {
			return fmt.Errorf("unknown transaction type %q (expected income, expense or transfer)", args[0])
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		category, _ := cmd.Flags().GetString("category")
		wallet, _ := cmd.Flags().GetString("wallet")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		note, _ := cmd.Flags().GetString("note")

		tx := &models.Transaction{
			UserID:   a.identity.UserID,
			Type:     txType,
			Amount:   amount,
			Category: category,
			Note:     note,
		}
		if txType == models.TxTransfer {
			tx.FromWallet = from
			tx.ToWallet = to
		} else {
			if wallet == "" {
				wallet = models.WalletCash
			}
			tx.Wallet = wallet
		}

		res, err := a.gateway.Create(tx)
		if err != nil {
			return err
		}

		if res.Pending {
			output.Warning("Saved offline, will sync when back online %s", output.PendingTag())
			output.Info("  %s %s  #%s", output.FormatType(txType), output.Money(amount), res.CorrelationID)
			return nil
		}
		output.Success("Recorded %s %s  #%d", txType, output.Money(amount), res.Tx.ID)
		return nil
	},
}

// parseAmount reads amounts the way people type them in chat: plain
// digits, or shorthand like 50k, 1tr2, 2m. "1tr2" means 1,200,000.
func parseAmount(s string) (int64, error) {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), ".", ""))
	s = strings.ReplaceAll(s, ",", "")

	for _, unit := range []struct {
		suffix string
		scale  int64
	}{
		{"tr", 1_000_000}, {"m", 1_000_000}, {"k", 1_000},
	} {
		if i := strings.Index(s, unit.suffix); i > 0 {
			whole, err := strconv.ParseInt(s[:i], 10, 64)
			if err != nil {
				break
			}
			rest := s[i+len(unit.suffix):]
			total := whole * unit.scale
			if rest != "" {
				frac, err := strconv.ParseInt(rest, 10, 64)
				if err != nil {
					break
				}
				// 1tr2 -> 1.2 million: the trailing digits scale by
				// position, one digit per order of magnitude below the unit.
				scale := unit.scale
				for range rest {
					scale /= 10
				}
				total += frac * scale
			}
			if total > 0 {
				return total, nil
			}
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

func init() {
	addCmd.Flags().StringP("category", "c", "", "category label")
	addCmd.Flags().StringP("wallet", "w", "", "wallet for income/expense (default cash)")
	addCmd.Flags().String("from", models.WalletCash, "source wallet for transfers")
	addCmd.Flags().String("to", models.WalletBank, "destination wallet for transfers")
	addCmd.Flags().StringP("note", "n", "", "free-form note")
	rootCmd.AddCommand(addCmd)
}
