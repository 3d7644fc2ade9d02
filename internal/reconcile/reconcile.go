// Package reconcile compares the payout a delivery channel reports
// against what the ledger recorded for the same window, and can post the
// difference back as an adjustment entry.
package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/tawahcm/soquy/internal/gateway"
	"github.com/tawahcm/soquy/internal/ledger"
	"github.com/tawahcm/soquy/internal/models"
)

// Channel identifies a payout source to reconcile against.
type Channel string

const (
	ChannelGrabFood   Channel = "grabfood"
	ChannelShopeeFood Channel = "shopeefood"
	ChannelBaemin     Channel = "baemin"
	ChannelBank       Channel = "bank"
)

// Channels lists the supported reconciliation channels.
var Channels = []Channel{ChannelGrabFood, ChannelShopeeFood, ChannelBaemin, ChannelBank}

// ParseChannel resolves user input to a known channel.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Channels {
		if c == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q (expected grabfood, shopeefood, baemin or bank)", s)
}

// channelKeywords match a channel against free-form category and note
// text, accented Vietnamese included.
var channelKeywords = map[Channel][]string{
	ChannelGrabFood:   {"grabfood", "grab food", "grab"},
	ChannelShopeeFood: {"shopeefood", "shopee food", "shopee"},
	ChannelBaemin:     {"baemin"},
	ChannelBank:       {"bank", "ngân hàng", "ngan hang", "chuyển khoản", "chuyen khoan"},
}

// Report is the outcome of one reconciliation run. Difference is
// reported minus recorded: positive means the channel paid out more than
// the ledger captured.
type Report struct {
	Channel    Channel
	From, To   time.Time
	Reported   int64
	Recorded   int64
	Difference int64
	Matched    []ledger.Entry
}

// Balanced reports whether the window reconciles exactly.
func (r *Report) Balanced() bool {
	return r.Difference == 0
}

// Run sums the channel's income entries inside [from, to) and compares
// them against the reported payout. Only income rows count: refunds to a
// channel are recorded as expenses and reconciled out of band.
func Run(entries []ledger.Entry, ch Channel, from, to time.Time, reported int64) *Report {
	rep := &Report{Channel: ch, From: from, To: to, Reported: reported}
	for _, e := range ledger.Filter(entries, from, to) {
		if e.Tx.Type != models.TxIncome || !matches(ch, e.Tx) {
			continue
		}
		rep.Recorded += e.Tx.Amount
		rep.Matched = append(rep.Matched, e)
	}
	rep.Difference = reported - rep.Recorded
	return rep
}

func matches(ch Channel, tx models.Transaction) bool {
	hay := strings.ToLower(tx.Category + " " + tx.Note)
	for _, k := range channelKeywords[ch] {
		if strings.Contains(hay, k) {
			return true
		}
	}
	return false
}

// PostAdjustment writes the report's difference back into the ledger as
// a single correcting entry: income when the channel paid more than was
// recorded, expense when less. A balanced report posts nothing.
func PostAdjustment(gw *gateway.Gateway, userID string, rep *Report) (*gateway.Result, error) {
	if rep.Balanced() {
		return nil, nil
	}

	tx := &models.Transaction{
		UserID:   userID,
		Amount:   rep.Difference,
		Type:     models.TxIncome,
		Category: fmt.Sprintf("Đối soát %s", rep.Channel),
		// Channel payouts settle to the bank account.
		Wallet: models.WalletBank,
		Note: fmt.Sprintf("Điều chỉnh đối soát %s (%s - %s)",
			rep.Channel, rep.From.Format("02/01"), rep.To.AddDate(0, 0, -1).Format("02/01")),
	}
	if rep.Difference < 0 {
		tx.Type = models.TxExpense
		tx.Amount = -rep.Difference
	}

	res, err := gw.Create(tx)
	if err != nil {
		return nil, fmt.Errorf("post adjustment: %w", err)
	}
	return res, nil
}
