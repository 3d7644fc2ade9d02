package models

import "testing"

func validTransfer() *Transaction {
	return &Transaction{
		UserID: "u1", Type: TxTransfer, Amount: 100000,
		FromWallet: WalletCash, ToWallet: WalletBank,
	}
}

func TestValidate(t *testing.T) {
	ok := &Transaction{UserID: "u1", Type: TxExpense, Amount: 45000}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}
	if err := validTransfer().Validate(); err != nil {
		t.Fatalf("valid transfer rejected: %v", err)
	}

	bad := []*Transaction{
		{UserID: "u1", Type: "refund", Amount: 100},
		{UserID: "u1", Type: TxExpense, Amount: 0},
		{UserID: "u1", Type: TxExpense, Amount: -100},
		{UserID: "", Type: TxExpense, Amount: 100},
		{UserID: "u1", Type: TxTransfer, Amount: 100, FromWallet: "cash", ToWallet: "cash"},
		{UserID: "u1", Type: TxTransfer, Amount: 100, FromWallet: "cash"},
		{UserID: "u1", Type: TxTransfer, Amount: 100, FromWallet: "cash", ToWallet: "bank", Category: "x"},
	}
	for i, tx := range bad {
		if err := tx.Validate(); err == nil {
			t.Errorf("case %d: invalid transaction accepted: %+v", i, tx)
		}
	}
}

func TestSign(t *testing.T) {
	tests := []struct {
		t    TxType
		want int64
	}{
		{TxIncome, 1},
		{TxExpense, -1},
		{TxTransfer, 0},
	}
	for _, tt := range tests {
		if got := tt.t.Sign(); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestPatchApply(t *testing.T) {
	tx := &Transaction{UserID: "u1", Type: TxExpense, Amount: 45000, Category: "cũ", Note: "giữ nguyên"}

	amount := int64(60000)
	category := "mới"
	p := &TransactionPatch{Amount: &amount, Category: &category}
	if p.IsZero() {
		t.Fatal("non-empty patch reports zero")
	}
	p.Apply(tx)

	if tx.Amount != 60000 || tx.Category != "mới" {
		t.Errorf("patch not applied: %+v", tx)
	}
	if tx.Note != "giữ nguyên" {
		t.Errorf("unpatched field changed: %q", tx.Note)
	}
}

func TestEmptyPatchIsZero(t *testing.T) {
	if !(&TransactionPatch{}).IsZero() {
		t.Fatal("empty patch not zero")
	}
}
