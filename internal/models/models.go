package models

import (
	"fmt"
	"time"
)

// TxType represents the kind of a ledger transaction
type TxType string

const (
	TxIncome   TxType = "income"
	TxExpense  TxType = "expense"
	TxTransfer TxType = "transfer"
)

// Valid reports whether t is one of the known transaction types
func (t TxType) Valid() bool {
	switch t {
	case TxIncome, TxExpense, TxTransfer:
		return true
	}
	return false
}

// Sign returns the contribution direction of this type when aggregating
// balances: +1 for income, -1 for expense, 0 for transfer (a transfer
// nets out across wallets; per-wallet movement is handled separately).
// Amounts are stored unsigned; the type alone decides the sign.
func (t TxType) Sign() int64 {
	switch t {
	case TxIncome:
		return 1
	case TxExpense:
		return -1
	}
	return 0
}

// Well-known wallet names. Free-text wallet labels are matched against
// these with keyword heuristics (see ledger.IsCashWallet).
const (
	WalletCash = "cash"
	WalletBank = "bank"
)

// Transaction is a single ledger entry. The remote store is authoritative:
// ID is server-assigned and stays 0 while the record is only queued locally.
// ClientID is generated on the client before the first insert attempt and
// acts as the deduplication key across resync replays.
type Transaction struct {
	ID         int64      `json:"id,omitempty"`
	ClientID   string     `json:"client_id"`
	UserID     string     `json:"user_id"`
	Type       TxType     `json:"type"`
	Amount     int64      `json:"amount"`
	Category   string     `json:"category,omitempty"`
	Wallet     string     `json:"wallet,omitempty"`
	FromWallet string     `json:"from_wallet,omitempty"`
	ToWallet   string     `json:"to_wallet,omitempty"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// Pending reports whether the transaction has been confirmed by the
// remote store yet.
func (t *Transaction) Pending() bool {
	return t.ID == 0
}

// Validate checks the structural invariants of a transaction before it is
// sent to the remote store or queued.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	if t.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", t.Amount)
	}
	if t.UserID == "" {
		return fmt.Errorf("transaction has no owning user")
	}
	if t.Type == TxTransfer {
		if t.FromWallet == "" || t.ToWallet == "" {
			return fmt.Errorf("transfer requires both source and destination wallets")
		}
		if t.FromWallet == t.ToWallet {
			return fmt.Errorf("transfer source and destination must differ")
		}
		if t.Category != "" {
			return fmt.Errorf("transfer cannot carry a category")
		}
	}
	return nil
}

// TransactionPatch is a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	Type       *TxType `json:"type,omitempty"`
	Amount     *int64  `json:"amount,omitempty"`
	Category   *string `json:"category,omitempty"`
	Wallet     *string `json:"wallet,omitempty"`
	FromWallet *string `json:"from_wallet,omitempty"`
	ToWallet   *string `json:"to_wallet,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p *TransactionPatch) IsZero() bool {
	return p.Type == nil && p.Amount == nil && p.Category == nil &&
		p.Wallet == nil && p.FromWallet == nil && p.ToWallet == nil && p.Note == nil
}

// Apply merges the patch into tx field by field.
func (p *TransactionPatch) Apply(tx *Transaction) {
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Wallet != nil {
		tx.Wallet = *p.Wallet
	}
	if p.FromWallet != nil {
		tx.FromWallet = *p.FromWallet
	}
	if p.ToWallet != nil {
		tx.ToWallet = *p.ToWallet
	}
	if p.Note != nil {
		tx.Note = *p.Note
	}
}

// MutationOp tags a PendingMutation with its operation.
type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

// PendingMutation is a queued write that has not been confirmed by the
// remote store. It is a closed tagged variant: exactly the fields relevant
// to Op are populated, so the resync runner can switch exhaustively.
//
//	OpCreate: Payload
//	OpUpdate: TargetID, Patch
//	OpDelete: TargetID
type PendingMutation struct {
	CorrelationID string            `json:"correlation_id"`
	Op            MutationOp        `json:"op"`
	Payload       *Transaction      `json:"payload,omitempty"`
	TargetID      int64             `json:"target_id,omitempty"`
	Patch         *TransactionPatch `json:"patch,omitempty"`
	EnqueuedAt    time.Time         `json:"enqueued_at"`
}

// AppSettings is the per-user configuration row. One row per user,
// upserted on save; no history kept.
//
// The alert thresholds are pointers so an explicit zero (alert
// disabled) is distinguishable from an absent value (defaults apply).
type AppSettings struct {
	UserID                string     `json:"user_id"`
	OpeningCash           int64      `json:"opening_cash"`
	OpeningBank           int64      `json:"opening_bank"`
	CashLowThreshold      *int64     `json:"cash_low_threshold,omitempty"`
	InactiveDaysThreshold *int       `json:"inactive_days_threshold,omitempty"`
	CashLowMessage        string     `json:"cash_low_message"`
	InactiveMessage       string     `json:"inactive_message"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

// AuditAction tags an AuditEntry.
type AuditAction string

const (
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditEntry is one append-only row of the transaction audit trail:
// before/after snapshots of a transaction around an update or delete.
// Never mutated once written.
type AuditEntry struct {
	ID       int64        `json:"id,omitempty"`
	UserID   string       `json:"user_id"`
	TargetID int64        `json:"target_id"`
	Action   AuditAction  `json:"action"`
	Before   *Transaction `json:"before,omitempty"`
	After    *Transaction `json:"after,omitempty"`
	At       time.Time    `json:"at"`
}
