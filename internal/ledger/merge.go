// Package ledger produces the user-facing view of the cash ledger:
// merging confirmed and pending records into one ordering, wallet balance
// arithmetic, and calendar-period aggregation.
package ledger

import (
	"sort"
	"time"

	"github.com/tawahcm/soquy/internal/models"
)

// Entry is one row of the merged ledger view. Pending rows come from the
// local queue and have not been confirmed by the remote store yet.
type Entry struct {
	Tx            models.Transaction
	Pending       bool
	CorrelationID string
	EffectiveAt   time.Time
}

// Ref returns the identifier a user addresses this entry by: the server
// id once confirmed, the correlation id while pending.
func (e *Entry) Ref() string {
	if e.Pending && e.Tx.ID == 0 {
		return e.CorrelationID
	}
	return formatID(e.Tx.ID)
}

// Merge combines confirmed remote records with the queued mutations into
// one consistently ordered list:
//
//   - queued creates appear as pending rows
//   - queued updates are overlaid onto their confirmed targets
//   - queued deletes hide their targets
//
// The merged list is sorted by (creation time if present, else enqueue
// time) descending, so pending and confirmed rows interleave by
// real-world recency rather than by which store they came from. The
// pending slice is the caller's snapshot; Merge never re-reads the queue
// mid-merge.
func Merge(confirmed []models.Transaction, queued []models.PendingMutation) []Entry {
	entries := make([]Entry, 0, len(confirmed)+len(queued))
	index := make(map[int64]int, len(confirmed))
	for _, tx := range confirmed {
		index[tx.ID] = len(entries)
		entries = append(entries, Entry{Tx: tx, EffectiveAt: effectiveTime(tx.CreatedAt, time.Time{})})
	}

	deleted := make(map[int64]bool)
	for _, m := range queued {
		switch m.Op {
		case models.OpCreate:
			tx := *m.Payload
			entries = append(entries, Entry{
				Tx:            tx,
				Pending:       true,
				CorrelationID: m.CorrelationID,
				EffectiveAt:   effectiveTime(tx.CreatedAt, m.EnqueuedAt),
			})
		case models.OpUpdate:
			if i, ok := index[m.TargetID]; ok {
				m.Patch.Apply(&entries[i].Tx)
				entries[i].Pending = true
				entries[i].CorrelationID = m.CorrelationID
			}
		case models.OpDelete:
			deleted[m.TargetID] = true
		}
	}

	merged := entries[:0]
	for _, e := range entries {
		if e.Tx.ID != 0 && deleted[e.Tx.ID] {
			continue
		}
		merged = append(merged, e)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].EffectiveAt.After(merged[j].EffectiveAt)
	})
	return merged
}

// effectiveTime picks the ordering timestamp for a row: creation time
// when the record has one, enqueue time otherwise.
func effectiveTime(createdAt, enqueuedAt time.Time) time.Time {
	if !createdAt.IsZero() {
		return createdAt
	}
	return enqueuedAt
}
