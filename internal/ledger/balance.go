package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/tawahcm/soquy/internal/models"
)

// Balances is the current position of both wallets plus the running
// totals the ledger header shows.
type Balances struct {
	Cash    int64
	Bank    int64
	Income  int64
	Expense int64
}

// Net returns total income minus total expense over the counted entries.
func (b Balances) Net() int64 {
	return b.Income - b.Expense
}

// Total returns the combined position of both wallets.
func (b Balances) Total() int64 {
	return b.Cash + b.Bank
}

// bankKeywords classifies free-form wallet labels. Matching is substring,
// case-insensitive, and accepts both accented and plain Vietnamese.
var bankKeywords = []string{"bank", "ngân hàng", "ngan hang", "tk", "chuyển khoản", "chuyen khoan"}

// IsBankWallet reports whether a wallet label names the bank wallet.
// Anything that does not match a bank keyword counts as cash, including
// an empty label, so malformed records still land somewhere visible.
func IsBankWallet(wallet string) bool {
	w := strings.ToLower(strings.TrimSpace(wallet))
	for _, k := range bankKeywords {
		if strings.Contains(w, k) {
			return true
		}
	}
	return false
}

// IsCashWallet is the complement of IsBankWallet.
func IsCashWallet(wallet string) bool {
	return !IsBankWallet(wallet)
}

// ComputeBalances folds the merged entries over the opening balances.
// Income and expense rows move their own wallet by the signed amount;
// transfers move the amount from the source wallet to the destination
// wallet without changing the combined total. Pending rows count the same
// as confirmed ones, matching the optimistic merged view.
func ComputeBalances(settings *models.AppSettings, entries []Entry) Balances {
	b := Balances{}
	if settings != nil {
		b.Cash = settings.OpeningCash
		b.Bank = settings.OpeningBank
	}

	for _, e := range entries {
		tx := e.Tx
		switch tx.Type {
		case models.TxTransfer:
			if IsBankWallet(tx.FromWallet) {
				b.Bank -= tx.Amount
			} else {
				b.Cash -= tx.Amount
			}
			if IsBankWallet(tx.ToWallet) {
				b.Bank += tx.Amount
			} else {
				b.Cash += tx.Amount
			}
		default:
			delta := int64(tx.Type.Sign()) * tx.Amount
			if IsBankWallet(tx.Wallet) {
				b.Bank += delta
			} else {
				b.Cash += delta
			}
			if tx.Type == models.TxIncome {
				b.Income += tx.Amount
			} else if tx.Type == models.TxExpense {
				b.Expense += tx.Amount
			}
		}
	}
	return b
}

// Filter returns the entries whose effective time falls within [from, to).
// A zero bound is open on that side.
func Filter(entries []Entry, from, to time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !from.IsZero() && e.EffectiveAt.Before(from) {
			continue
		}
		if !to.IsZero() && !e.EffectiveAt.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Search returns the entries whose note, category or wallet labels contain
// the query, case-insensitively.
func Search(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		hay := strings.ToLower(strings.Join([]string{
			e.Tx.Note, e.Tx.Category, e.Tx.Wallet, e.Tx.FromWallet, e.Tx.ToWallet,
		}, " "))
		if strings.Contains(hay, q) {
			out = append(out, e)
		}
	}
	return out
}

// LastActivity returns the newest effective time across the entries, or
// the zero time for an empty ledger. Feeds the inactivity alert.
func LastActivity(entries []Entry) time.Time {
	var newest time.Time
	for _, e := range entries {
		if e.EffectiveAt.After(newest) {
			newest = e.EffectiveAt
		}
	}
	return newest
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
