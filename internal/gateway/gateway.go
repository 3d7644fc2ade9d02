// Package gateway wraps every write to the remote store. Connectivity
// failures turn into queued pending mutations so the caller still gets an
// optimistic result; every other failure propagates unchanged.
package gateway

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/pending"
	"github.com/tawahcm/soquy/internal/remote"
)

// Remote is the slice of the data API the gateway needs.
type Remote interface {
	InsertTransaction(tx *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(id int64, patch *models.TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(id int64) error
}

// Auditor records before/after snapshots around confirmed mutations.
// Implementations must tolerate being called best-effort.
type Auditor interface {
	RecordUpdate(before, after *models.Transaction) error
	RecordDelete(before *models.Transaction) error
}

// Result is the outcome of a gateway write. Pending is true when the
// mutation was accepted locally but not yet confirmed by the remote
// store; the UI must present it distinctly from a durable confirmation.
type Result struct {
	Tx            *models.Transaction
	Pending       bool
	CorrelationID string
}

// Gateway routes create/update/delete calls between the remote store and
// the local pending queue.
type Gateway struct {
	remote  Remote
	queue   *pending.Store
	auditor Auditor // nil disables audit logging

	now func() time.Time
}

// New creates a gateway. auditor may be nil.
func New(r Remote, queue *pending.Store, auditor Auditor) *Gateway {
	return &Gateway{remote: r, queue: queue, auditor: auditor, now: time.Now}
}

// Create sends a new transaction to the remote store. On a connectivity
// failure the payload is queued and returned optimistically with
// Pending=true. The client id doubles as the correlation id, so a resync
// replay of the same create is deduplicated server-side.
func (g *Gateway) Create(tx *models.Transaction) (*Result, error) {
	if tx.ClientID == "" {
		tx.ClientID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = g.now()
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	confirmed, err := g.remote.InsertTransaction(tx)
	if err == nil {
		return &Result{Tx: confirmed, CorrelationID: tx.ClientID}, nil
	}
	if !remote.IsConnectivityError(err) {
		return nil, err
	}

	m := models.PendingMutation{
		CorrelationID: tx.ClientID,
		Op:            models.OpCreate,
		Payload:       tx,
		EnqueuedAt:    g.now(),
	}
	if qerr := g.queue.Enqueue(m); qerr != nil {
		return nil, fmt.Errorf("queue create: %w", qerr)
	}
	slog.Debug("gateway: queued create", "correlation_id", tx.ClientID)
	return &Result{Tx: tx, Pending: true, CorrelationID: tx.ClientID}, nil
}

// Update patches a transaction. ref is either a server-assigned numeric id
// or the correlation id of a still-queued create; the latter is patched in
// place in the queue without touching the network. before, when known,
// feeds the audit trail.
func (g *Gateway) Update(ref string, patch *models.TransactionPatch, before *models.Transaction) (*Result, error) {
	if patch.IsZero() {
		return nil, fmt.Errorf("empty patch")
	}

	if m, err := g.queue.FindByCorrelationID(ref); err != nil {
		return nil, err
	} else if m != nil && m.Op == models.OpCreate {
		var updated models.Transaction
		ok, err := g.queue.UpdatePayload(ref, func(pm *models.PendingMutation) {
			patch.Apply(pm.Payload)
			updated = *pm.Payload
		})
		if err != nil {
			return nil, fmt.Errorf("patch queued create: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("pending record %s vanished mid-update", ref)
		}
		return &Result{Tx: &updated, Pending: true, CorrelationID: ref}, nil
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unknown transaction %q", ref)
	}

	confirmed, err := g.remote.UpdateTransaction(id, patch)
	if err == nil {
		g.audit(func(a Auditor) error { return a.RecordUpdate(before, confirmed) })
		return &Result{Tx: confirmed}, nil
	}
	if !remote.IsConnectivityError(err) {
		return nil, err
	}

	m := models.PendingMutation{
		CorrelationID: uuid.NewString(),
		Op:            models.OpUpdate,
		TargetID:      id,
		Patch:         patch,
		EnqueuedAt:    g.now(),
	}
	if qerr := g.queue.Enqueue(m); qerr != nil {
		return nil, fmt.Errorf("queue update: %w", qerr)
	}
	slog.Debug("gateway: queued update", "target_id", id, "correlation_id", m.CorrelationID)

	// Optimistic view: the patch applied to whatever the caller knew.
	res := &Result{Pending: true, CorrelationID: m.CorrelationID}
	if before != nil {
		optimistic := *before
		patch.Apply(&optimistic)
		res.Tx = &optimistic
	}
	return res, nil
}

// Delete removes a transaction. A still-queued create is simply dropped
// from the queue; it never reached the remote store, so there is nothing
// to reconcile.
func (g *Gateway) Delete(ref string, before *models.Transaction) (*Result, error) {
	if m, err := g.queue.FindByCorrelationID(ref); err != nil {
		return nil, err
	} else if m != nil && m.Op == models.OpCreate {
		if err := g.queue.DequeueByCorrelationID(ref); err != nil {
			return nil, fmt.Errorf("drop queued create: %w", err)
		}
		return &Result{CorrelationID: ref}, nil
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unknown transaction %q", ref)
	}

	err = g.remote.DeleteTransaction(id)
	if err == nil {
		g.audit(func(a Auditor) error { return a.RecordDelete(before) })
		return &Result{}, nil
	}
	if !remote.IsConnectivityError(err) {
		return nil, err
	}

	m := models.PendingMutation{
		CorrelationID: uuid.NewString(),
		Op:            models.OpDelete,
		TargetID:      id,
		EnqueuedAt:    g.now(),
	}
	if qerr := g.queue.Enqueue(m); qerr != nil {
		return nil, fmt.Errorf("queue delete: %w", qerr)
	}
	slog.Debug("gateway: queued delete", "target_id", id, "correlation_id", m.CorrelationID)
	return &Result{Pending: true, CorrelationID: m.CorrelationID}, nil
}

// audit runs an audit callback best-effort; a failed audit write never
// fails the mutation that triggered it.
func (g *Gateway) audit(fn func(Auditor) error) {
	if g.auditor == nil {
		return
	}
	if err := fn(g.auditor); err != nil {
		slog.Warn("gateway: audit write failed", "err", err)
	}
}
