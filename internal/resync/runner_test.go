package resync

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/pending"
	"github.com/tawahcm/soquy/internal/remote"
)

// scriptedRemote returns a scripted error per correlation/target and
// records the order of replay attempts.
type scriptedRemote struct {
	mu        sync.Mutex
	insertErr map[string]error
	updateErr map[int64]error
	deleteErr map[int64]error
	calls     []string

	block chan struct{} // when non-nil, InsertTransaction waits on it
}

func (f *scriptedRemote) InsertTransaction(tx *models.Transaction) (*models.Transaction, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create:"+tx.ClientID)
	if err := f.insertErr[tx.ClientID]; err != nil {
		return nil, err
	}
	confirmed := *tx
	confirmed.ID = int64(len(f.calls))
	return &confirmed, nil
}

func (f *scriptedRemote) UpdateTransaction(id int64, patch *models.TransactionPatch) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("update:%d", id))
	if err := f.updateErr[id]; err != nil {
		return nil, err
	}
	return &models.Transaction{ID: id}, nil
}

func (f *scriptedRemote) DeleteTransaction(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("delete:%d", id))
	return f.deleteErr[id]
}

func testRunner(t *testing.T) (*Runner, *scriptedRemote, *pending.Store) {
	t.Helper()
	fake := &scriptedRemote{
		insertErr: map[string]error{},
		updateErr: map[int64]error{},
		deleteErr: map[int64]error{},
	}
	queue := pending.NewStore(filepath.Join(t.TempDir(), "pending.json"))
	return New(fake, queue, nil), fake, queue
}

// recordingAuditor captures audit calls.
type recordingAuditor struct {
	updates []int64
	deletes []int64
}

func (a *recordingAuditor) RecordUpdate(before, after *models.Transaction) error {
	a.updates = append(a.updates, after.ID)
	return nil
}

func (a *recordingAuditor) RecordDelete(before *models.Transaction) error {
	a.deletes = append(a.deletes, before.ID)
	return nil
}

func enqueueCreate(t *testing.T, queue *pending.Store, id string) {
	t.Helper()
	err := queue.Enqueue(models.PendingMutation{
		CorrelationID: id,
		Op:            models.OpCreate,
		Payload: &models.Transaction{
			ClientID: id, UserID: "u1", Type: models.TxIncome, Amount: 1000,
		},
		EnqueuedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("enqueue %s: %v", id, err)
	}
}

func TestRunReplaysInOrder(t *testing.T) {
	r, fake, queue := testRunner(t)
	enqueueCreate(t, queue, "a")
	queue.Enqueue(models.PendingMutation{
		CorrelationID: "b", Op: models.OpUpdate, TargetID: 7,
		Patch: &models.TransactionPatch{}, EnqueuedAt: time.Now(),
	})
	queue.Enqueue(models.PendingMutation{
		CorrelationID: "c", Op: models.OpDelete, TargetID: 9, EnqueuedAt: time.Now(),
	})

	sum, err := r.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Synced != 3 {
		t.Fatalf("got %d synced, want 3", sum.Synced)
	}

	want := []string{"create:a", "update:7", "delete:9"}
	if len(fake.calls) != len(want) {
		t.Fatalf("got calls %v, want %v", fake.calls, want)
	}
	for i := range want {
		if fake.calls[i] != want[i] {
			t.Errorf("call %d: got %s, want %s", i, fake.calls[i], want[i])
		}
	}
}

// One unreachable entry must not abort the pass: A syncs, B stays
// queued, C still syncs.
func TestPartialFailureTolerance(t *testing.T) {
	r, fake, queue := testRunner(t)
	enqueueCreate(t, queue, "a")
	enqueueCreate(t, queue, "b")
	enqueueCreate(t, queue, "c")
	fake.insertErr["b"] = remote.ErrOffline

	sum, err := r.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Synced != 2 {
		t.Errorf("got %d synced, want 2", sum.Synced)
	}
	if sum.Remaining != 1 {
		t.Errorf("got %d remaining, want 1", sum.Remaining)
	}

	list, _ := queue.ListAll()
	if len(list) != 1 || list[0].CorrelationID != "b" {
		t.Fatalf("queue after pass: %+v, want only b", list)
	}
}

// A conflict on replayed create means an earlier replay already landed;
// the entry must be treated as confirmed and dequeued, not retried.
func TestConflictOnCreateCountsAsSynced(t *testing.T) {
	r, fake, queue := testRunner(t)
	enqueueCreate(t, queue, "a")
	fake.insertErr["a"] = remote.ErrConflict

	sum, err := r.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Synced != 1 {
		t.Errorf("got %d synced, want 1", sum.Synced)
	}
	n, _ := queue.Len()
	if n != 0 {
		t.Errorf("conflicted create still queued")
	}
}

// An update whose target no longer exists can never succeed; it is
// dropped so the queue does not retry forever.
func TestStaleTargetDropped(t *testing.T) {
	r, fake, queue := testRunner(t)
	queue.Enqueue(models.PendingMutation{
		CorrelationID: "a", Op: models.OpUpdate, TargetID: 7,
		Patch: &models.TransactionPatch{}, EnqueuedAt: time.Now(),
	})
	fake.updateErr[7] = remote.ErrNotFound

	sum, err := r.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Dropped != 1 {
		t.Errorf("got %d dropped, want 1", sum.Dropped)
	}
	if sum.Synced != 0 {
		t.Errorf("got %d synced, want 0", sum.Synced)
	}
	n, _ := queue.Len()
	if n != 0 {
		t.Errorf("unreplayable mutation still queued")
	}
}

func TestOverlappingRunSkipped(t *testing.T) {
	r, fake, queue := testRunner(t)
	enqueueCreate(t, queue, "a")
	fake.block = make(chan struct{})

	done := make(chan *Summary)
	go func() {
		sum, _ := r.Run()
		done <- sum
	}()

	// Wait for the first pass to reach the blocked insert.
	for !r.Running() {
		time.Sleep(time.Millisecond)
	}

	second, err := r.Run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Skipped {
		t.Error("overlapping run was not skipped")
	}

	close(fake.block)
	first := <-done
	if first.Synced != 1 {
		t.Errorf("first pass synced %d, want 1", first.Synced)
	}
}

// Replayed updates and deletes must leave audit rows, the same as the
// equivalent online edits would; creates are their own record.
func TestReplayWritesAuditRows(t *testing.T) {
	fake := &scriptedRemote{
		insertErr: map[string]error{},
		updateErr: map[int64]error{},
		deleteErr: map[int64]error{},
	}
	queue := pending.NewStore(filepath.Join(t.TempDir(), "pending.json"))
	auditor := &recordingAuditor{}
	r := New(fake, queue, auditor)

	enqueueCreate(t, queue, "a")
	queue.Enqueue(models.PendingMutation{
		CorrelationID: "b", Op: models.OpUpdate, TargetID: 7,
		Patch: &models.TransactionPatch{}, EnqueuedAt: time.Now(),
	})
	queue.Enqueue(models.PendingMutation{
		CorrelationID: "c", Op: models.OpDelete, TargetID: 9, EnqueuedAt: time.Now(),
	})

	sum, err := r.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Synced != 3 {
		t.Fatalf("got %d synced, want 3", sum.Synced)
	}

	if len(auditor.updates) != 1 || auditor.updates[0] != 7 {
		t.Errorf("got update audits %v, want [7]", auditor.updates)
	}
	if len(auditor.deletes) != 1 || auditor.deletes[0] != 9 {
		t.Errorf("got delete audits %v, want [9]", auditor.deletes)
	}
}

func TestEmptyQueueIsNoop(t *testing.T) {
	r, fake, _ := testRunner(t)
	sum, err := r.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Synced != 0 || sum.Dropped != 0 || sum.Remaining != 0 {
		t.Errorf("unexpected summary for empty queue: %+v", sum)
	}
	if len(fake.calls) != 0 {
		t.Errorf("empty queue still produced calls: %v", fake.calls)
	}
}
