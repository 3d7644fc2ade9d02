// Package connectivity tracks whether the remote store is reachable and
// reports offline-to-online transitions, the trigger for opportunistic
// resync passes.
package connectivity

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Prober checks remote reachability. Satisfied by the data API client.
type Prober interface {
	HealthCheck() error
}

// DefaultInterval is how often Watch probes when the caller does not
// choose an interval.
const DefaultInterval = 30 * time.Second

// Monitor holds the last known connectivity state. The zero state is
// online: the app assumes reachability until a probe or a failed call
// proves otherwise, so the first mutation is always attempted directly.
type Monitor struct {
	probe   Prober
	offline atomic.Bool
}

// NewMonitor creates a monitor around the given prober.
func NewMonitor(p Prober) *Monitor {
	return &Monitor{probe: p}
}

// Online reports the last known state without probing.
func (m *Monitor) Online() bool {
	return !m.offline.Load()
}

// Offline is the complement of Online, shaped to plug into the data API
// client's short-circuit hook.
func (m *Monitor) Offline() bool {
	return m.offline.Load()
}

// MarkOffline records an observed connectivity failure, e.g. a mutation
// that just got queued.
func (m *Monitor) MarkOffline() {
	m.offline.Store(true)
}

// Probe checks reachability once and updates the state. Returns true
// when the probe succeeded AND the previous state was offline, i.e. the
// transition that should trigger a resync pass.
func (m *Monitor) Probe() bool {
	err := m.probe.HealthCheck()
	wasOffline := m.offline.Swap(err != nil)
	if err != nil {
		slog.Debug("connectivity: probe failed", "err", err)
		return false
	}
	if wasOffline {
		slog.Info("connectivity: back online")
	}
	return wasOffline
}

// Watch probes on a fixed interval until ctx is cancelled, invoking
// onOnline on every offline-to-online transition. An immediate first
// probe runs before the ticker starts, and fires onOnline whenever it
// succeeds: a watcher started online may already have a backlog queued
// by earlier sessions, so startup counts as an opportunity too.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration, onOnline func()) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	m.Probe()
	if m.Online() && onOnline != nil {
		onOnline()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.Probe() && onOnline != nil {
				onOnline()
			}
		}
	}
}
