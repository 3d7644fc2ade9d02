// Package resync replays queued pending mutations against the remote
// store once connectivity is available.
package resync

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/pending"
	"github.com/tawahcm/soquy/internal/remote"
)

// Remote is the slice of the data API the runner needs.
type Remote interface {
	InsertTransaction(tx *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(id int64, patch *models.TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(id int64) error
}

// Auditor records snapshots around replayed updates and deletes, so an
// edit made offline still leaves an audit row once it syncs, the same
// as the edit made online would have.
type Auditor interface {
	RecordUpdate(before, after *models.Transaction) error
	RecordDelete(before *models.Transaction) error
}

// Summary reports the outcome of one resync pass. The runner never
// raises for individual replay failures; callers inspect the counts and
// refresh their view when Synced > 0.
type Summary struct {
	Synced    int // confirmed and dequeued
	Dropped   int // permanently failed, dequeued to break the retry loop
	Remaining int // still queued (connectivity failures)
	Skipped   bool // another pass was already running; nothing was attempted
}

// Runner replays the pending queue in FIFO order. Runs never overlap: a
// trigger that arrives while a pass is in flight is ignored.
type Runner struct {
	remote  Remote
	queue   *pending.Store
	auditor Auditor // nil disables audit logging
	running atomic.Bool
}

// New creates a runner. auditor may be nil.
func New(r Remote, queue *pending.Store, auditor Auditor) *Runner {
	return &Runner{remote: r, queue: queue, auditor: auditor}
}

// Running reports whether a pass is currently in flight.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Run executes one resync pass. Replay order matches enqueue order, so an
// update queued after a create for the same record is never applied first.
// Per entry:
//   - success: dequeue, count as synced
//   - connectivity failure: keep queued, continue with the next entry
//   - anything else (stale target, constraint): log, dequeue, count as
//     dropped; retrying an operation that can never succeed would loop
//     forever
//
// The returned error covers only pending-store I/O; replay failures are
// reported through the summary.
func (r *Runner) Run() (*Summary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return &Summary{Skipped: true}, nil
	}
	defer r.running.Store(false)

	snapshot, err := r.queue.ListAll()
	if err != nil {
		return nil, fmt.Errorf("read pending queue: %w", err)
	}

	sum := &Summary{}
	for _, m := range snapshot {
		err := r.replay(m)
		switch {
		case err == nil:
			if derr := r.queue.DequeueByCorrelationID(m.CorrelationID); derr != nil {
				return sum, fmt.Errorf("dequeue %s: %w", m.CorrelationID, derr)
			}
			sum.Synced++
		case remote.IsConnectivityError(err):
			// Still offline or flaky; keep the entry and move on so one
			// bad call does not abort the whole pass.
			slog.Debug("resync: still unreachable", "op", m.Op, "correlation_id", m.CorrelationID)
			sum.Remaining++
		default:
			slog.Warn("resync: dropping unreplayable mutation",
				"op", m.Op, "correlation_id", m.CorrelationID, "target_id", m.TargetID, "err", err)
			if derr := r.queue.DequeueByCorrelationID(m.CorrelationID); derr != nil {
				return sum, fmt.Errorf("dequeue %s: %w", m.CorrelationID, derr)
			}
			sum.Dropped++
		}
	}

	if sum.Synced > 0 || sum.Dropped > 0 {
		slog.Info("resync: pass complete",
			"synced", sum.Synced, "dropped", sum.Dropped, "remaining", sum.Remaining)
	}
	return sum, nil
}

// replay applies a single queued mutation against the remote store.
func (r *Runner) replay(m models.PendingMutation) error {
	switch m.Op {
	case models.OpCreate:
		_, err := r.remote.InsertTransaction(m.Payload)
		// A conflict on (user_id, client_id) means an earlier replay of
		// this create already landed, e.g. a crash between remote success
		// and local dequeue. The record exists exactly once; confirmed.
		if errors.Is(err, remote.ErrConflict) {
			slog.Debug("resync: create already confirmed", "correlation_id", m.CorrelationID)
			return nil
		}
		return err
	case models.OpUpdate:
		confirmed, err := r.remote.UpdateTransaction(m.TargetID, m.Patch)
		if err != nil {
			return err
		}
		// The edit was made offline, so no prior snapshot exists; the row
		// still records the intent and the resulting state.
		r.audit(func(a Auditor) error { return a.RecordUpdate(nil, confirmed) })
		return nil
	case models.OpDelete:
		if err := r.remote.DeleteTransaction(m.TargetID); err != nil {
			return err
		}
		r.audit(func(a Auditor) error { return a.RecordDelete(&models.Transaction{ID: m.TargetID}) })
		return nil
	default:
		return fmt.Errorf("unknown mutation op %q", m.Op)
	}
}

// audit runs an audit callback best-effort; a failed audit write never
// fails the replay that triggered it.
func (r *Runner) audit(fn func(Auditor) error) {
	if r.auditor == nil {
		return
	}
	if err := fn(r.auditor); err != nil {
		slog.Warn("resync: audit write failed", "err", err)
	}
}
