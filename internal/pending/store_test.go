package pending

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tawahcm/soquy/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "pending.json"))
}

func createMutation(id string, amount int64) models.PendingMutation {
	return models.PendingMutation{
		CorrelationID: id,
		Op:            models.OpCreate,
		Payload: &models.Transaction{
			ClientID: id,
			UserID:   "u1",
			Type:     models.TxExpense,
			Amount:   amount,
		},
		EnqueuedAt: time.Now(),
	}
}

func TestEnqueuePreservesOrder(t *testing.T) {
	s := testStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Enqueue(createMutation(id, 1000)); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	list, err := s.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d mutations, want 3", len(list))
	}
	for i, want := range []string{"a", "b", "c"} {
		if list[i].CorrelationID != want {
			t.Errorf("position %d: got %s, want %s", i, list[i].CorrelationID, want)
		}
	}
}

func TestDequeueIsIdempotent(t *testing.T) {
	s := testStore(t)
	if err := s.Enqueue(createMutation("a", 1000)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := s.DequeueByCorrelationID("a"); err != nil {
		t.Fatalf("first dequeue: %v", err)
	}
	// Second removal of the same id must be a no-op, not an error.
	if err := s.DequeueByCorrelationID("a"); err != nil {
		t.Fatalf("second dequeue: %v", err)
	}

	n, err := s.Len()
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d mutations, want 0", n)
	}
}

func TestDequeueRemovesOnlyTarget(t *testing.T) {
	s := testStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Enqueue(createMutation(id, 1000)); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}
	if err := s.DequeueByCorrelationID("b"); err != nil {
		t.Fatalf("dequeue: %v", err)
	}

	list, _ := s.ListAll()
	if len(list) != 2 {
		t.Fatalf("got %d mutations, want 2", len(list))
	}
	if list[0].CorrelationID != "a" || list[1].CorrelationID != "c" {
		t.Errorf("got order %s,%s, want a,c", list[0].CorrelationID, list[1].CorrelationID)
	}
}

func TestUpdatePayload(t *testing.T) {
	s := testStore(t)
	if err := s.Enqueue(createMutation("a", 1000)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ok, err := s.UpdatePayload("a", func(m *models.PendingMutation) {
		m.Payload.Amount = 2500
	})
	if err != nil {
		t.Fatalf("update payload: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to be found")
	}

	m, err := s.FindByCorrelationID("a")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if m.Payload.Amount != 2500 {
		t.Errorf("got amount %d, want 2500", m.Payload.Amount)
	}
}

func TestUpdatePayloadMissing(t *testing.T) {
	s := testStore(t)
	ok, err := s.UpdatePayload("nope", func(m *models.PendingMutation) {})
	if err != nil {
		t.Fatalf("update payload: %v", err)
	}
	if ok {
		t.Fatal("expected missing entry to report false")
	}
}

func TestListAllReturnsSnapshot(t *testing.T) {
	s := testStore(t)
	if err := s.Enqueue(createMutation("a", 1000)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	list, _ := s.ListAll()
	list[0].CorrelationID = "mangled"

	again, _ := s.ListAll()
	if again[0].CorrelationID != "a" {
		t.Errorf("store mutated through snapshot: got %s, want a", again[0].CorrelationID)
	}
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.json")
	s := NewStore(path)
	if err := s.Enqueue(createMutation("a", 1000)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	reopened := NewStore(path)
	list, err := reopened.ListAll()
	if err != nil {
		t.Fatalf("list after reopen: %v", err)
	}
	if len(list) != 1 || list[0].CorrelationID != "a" {
		t.Fatalf("queue did not survive reopen: %+v", list)
	}
}

func TestClear(t *testing.T) {
	s := testStore(t)
	s.Enqueue(createMutation("a", 1000))
	s.Enqueue(createMutation("b", 2000))

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, _ := s.Len()
	if n != 0 {
		t.Fatalf("got %d mutations after clear, want 0", n)
	}
}

func TestRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.json")
	if err := os.WriteFile(path, []byte(`{"version":99,"mutations":[]}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(path)
	if _, err := s.ListAll(); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
