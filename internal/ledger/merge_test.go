package ledger

import (
	"testing"
	"time"

	"github.com/tawahcm/soquy/internal/models"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 8, day, hour, 0, 0, 0, time.UTC)
}

func confirmedTx(id int64, createdAt time.Time, amount int64) models.Transaction {
	return models.Transaction{
		ID: id, UserID: "u1", Type: models.TxExpense, Amount: amount, CreatedAt: createdAt,
	}
}

func queuedCreate(correlationID string, createdAt, enqueuedAt time.Time) models.PendingMutation {
	return models.PendingMutation{
		CorrelationID: correlationID,
		Op:            models.OpCreate,
		Payload: &models.Transaction{
			ClientID: correlationID, UserID: "u1", Type: models.TxIncome,
			Amount: 1000, CreatedAt: createdAt,
		},
		EnqueuedAt: enqueuedAt,
	}
}

// Pending and confirmed rows must interleave by recency, not cluster by
// which store they came from.
func TestMergeOrdersByRecency(t *testing.T) {
	confirmed := []models.Transaction{
		confirmedTx(1, at(10, 9), 1000),
		confirmedTx(2, at(12, 9), 1000),
	}
	queued := []models.PendingMutation{
		queuedCreate("p1", at(11, 9), at(11, 10)),
	}

	merged := Merge(confirmed, queued)
	if len(merged) != 3 {
		t.Fatalf("got %d entries, want 3", len(merged))
	}

	wantOrder := []string{"2", "p1", "1"}
	for i, want := range wantOrder {
		if got := merged[i].Ref(); got != want {
			t.Errorf("position %d: got %s, want %s", i, got, want)
		}
	}
	if !merged[1].Pending {
		t.Error("queued create not marked pending")
	}
}

func TestMergeFallsBackToEnqueueTime(t *testing.T) {
	queued := []models.PendingMutation{
		{
			CorrelationID: "p1",
			Op:            models.OpCreate,
			Payload:       &models.Transaction{ClientID: "p1", UserID: "u1", Type: models.TxIncome, Amount: 500},
			EnqueuedAt:    at(15, 12),
		},
	}
	merged := Merge(nil, queued)
	if len(merged) != 1 {
		t.Fatalf("got %d entries, want 1", len(merged))
	}
	if !merged[0].EffectiveAt.Equal(at(15, 12)) {
		t.Errorf("got effective time %v, want enqueue time", merged[0].EffectiveAt)
	}
}

func TestMergeOverlaysQueuedUpdate(t *testing.T) {
	confirmed := []models.Transaction{confirmedTx(1, at(10, 9), 45000)}
	amount := int64(60000)
	queued := []models.PendingMutation{
		{
			CorrelationID: "p1", Op: models.OpUpdate, TargetID: 1,
			Patch: &models.TransactionPatch{Amount: &amount}, EnqueuedAt: at(10, 10),
		},
	}

	merged := Merge(confirmed, queued)
	if merged[0].Tx.Amount != 60000 {
		t.Errorf("got amount %d, want patched 60000", merged[0].Tx.Amount)
	}
	if !merged[0].Pending {
		t.Error("patched row not marked pending")
	}
}

func TestMergeHidesQueuedDelete(t *testing.T) {
	confirmed := []models.Transaction{
		confirmedTx(1, at(10, 9), 1000),
		confirmedTx(2, at(11, 9), 2000),
	}
	queued := []models.PendingMutation{
		{CorrelationID: "p1", Op: models.OpDelete, TargetID: 1, EnqueuedAt: at(11, 10)},
	}

	merged := Merge(confirmed, queued)
	if len(merged) != 1 {
		t.Fatalf("got %d entries, want 1", len(merged))
	}
	if merged[0].Tx.ID != 2 {
		t.Errorf("wrong row survived: %d", merged[0].Tx.ID)
	}
}

func TestMergeUpdateForUnknownTargetIgnored(t *testing.T) {
	amount := int64(500)
	queued := []models.PendingMutation{
		{
			CorrelationID: "p1", Op: models.OpUpdate, TargetID: 99,
			Patch: &models.TransactionPatch{Amount: &amount}, EnqueuedAt: at(10, 10),
		},
	}
	merged := Merge(nil, queued)
	if len(merged) != 0 {
		t.Fatalf("got %d entries, want 0", len(merged))
	}
}
