// Package audit records before/after snapshots of destructive edits.
// Creates are recoverable from the record itself, so only updates and
// deletes are logged.
package audit

import (
	"fmt"
	"time"

	"github.com/tawahcm/soquy/internal/models"
)

// Remote is the slice of the data API the recorder needs.
type Remote interface {
	AppendAudit(e *models.AuditEntry) error
	ListAudit(userID string, since time.Time) ([]models.AuditEntry, error)
}

// Recorder appends audit rows to the remote store for one user.
type Recorder struct {
	remote Remote
	userID string

	now func() time.Time
}

// NewRecorder creates a recorder scoped to one user.
func NewRecorder(r Remote, userID string) *Recorder {
	return &Recorder{remote: r, userID: userID, now: time.Now}
}

// RecordUpdate logs an update with both snapshots. A nil before is
// tolerated: the edit still gets a row, just without the prior state.
func (r *Recorder) RecordUpdate(before, after *models.Transaction) error {
	e := &models.AuditEntry{
		UserID: r.userID,
		Action: models.AuditUpdate,
		Before: before,
		After:  after,
		At:     r.now(),
	}
	if after != nil {
		e.TargetID = after.ID
	} else if before != nil {
		e.TargetID = before.ID
	}
	if err := r.remote.AppendAudit(e); err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// RecordDelete logs a delete with the removed snapshot.
func (r *Recorder) RecordDelete(before *models.Transaction) error {
	e := &models.AuditEntry{
		UserID: r.userID,
		Action: models.AuditDelete,
		Before: before,
		At:     r.now(),
	}
	if before != nil {
		e.TargetID = before.ID
	}
	if err := r.remote.AppendAudit(e); err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// Recent returns the user's audit entries from the trailing days window,
// newest first per the server ordering.
func (r *Recorder) Recent(days int) ([]models.AuditEntry, error) {
	if days <= 0 {
		days = 30
	}
	since := r.now().AddDate(0, 0, -days)
	entries, err := r.remote.ListAudit(r.userID, since)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return entries, nil
}
