package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tawahcm/soquy/internal/audit"
	"github.com/tawahcm/soquy/internal/auth"
	"github.com/tawahcm/soquy/internal/cache"
	"github.com/tawahcm/soquy/internal/config"
	"github.com/tawahcm/soquy/internal/connectivity"
	"github.com/tawahcm/soquy/internal/gateway"
	"github.com/tawahcm/soquy/internal/ledger"
	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/pending"
	"github.com/tawahcm/soquy/internal/remote"
	"github.com/tawahcm/soquy/internal/resync"
	"github.com/tawahcm/soquy/internal/settings"
)

// app wires the client-side services for one command invocation.
type app struct {
	identity *auth.Identity
	client   *remote.Client
	queue    *pending.Store
	cache    *cache.Cache
	monitor  *connectivity.Monitor
	gateway  *gateway.Gateway
	runner   *resync.Runner
	settings *settings.Service
	auditor  *audit.Recorder
}

// newApp builds the service graph. Fails when not logged in; every data
// command needs a user id to scope its queries.
func newApp() (*app, error) {
	identity, creds, err := auth.Current()
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, fmt.Errorf("not logged in (run: soquy auth login)")
	}
	if identity.Expired(time.Now()) {
		return nil, fmt.Errorf("session expired (run: soquy auth login)")
	}

	client := remote.New(config.ServerURL(), creds.Token)
	monitor := connectivity.NewMonitor(client)
	client.Offline = monitor.Offline

	pendingPath, err := config.PendingPath()
	if err != nil {
		return nil, err
	}
	queue := pending.NewStore(pendingPath)

	cachePath, err := config.CachePath()
	if err != nil {
		return nil, err
	}
	snapshot, err := cache.Open(cachePath)
	if err != nil {
		return nil, err
	}

	auditor := audit.NewRecorder(client, identity.UserID)
	return &app{
		identity: identity,
		client:   client,
		queue:    queue,
		cache:    snapshot,
		monitor:  monitor,
		gateway:  gateway.New(client, queue, auditor),
		runner:   resync.New(client, queue, auditor),
		settings: settings.NewService(client, identity.UserID),
		auditor:  auditor,
	}, nil
}

// Close releases held resources.
func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

// tryResync runs one opportunistic resync pass when anything is queued.
// Failures are logged, never surfaced: the triggering command already
// succeeded and the queue survives for the next opportunity.
func (a *app) tryResync() *resync.Summary {
	n, err := a.queue.Len()
	if err != nil || n == 0 {
		return nil
	}
	sum, err := a.runner.Run()
	if err != nil {
		slog.Warn("opportunistic resync failed", "err", err)
		return nil
	}
	return sum
}

// entries fetches the merged ledger view. The confirmed list comes from
// the remote store when reachable, refreshing the offline snapshot on
// the way; otherwise from the snapshot. The pending overlay applies in
// both cases.
func (a *app) entries() ([]ledger.Entry, bool, error) {
	confirmed, fromCache, err := a.confirmed()
	if err != nil {
		return nil, false, err
	}
	queued, err := a.queue.ListAll()
	if err != nil {
		return nil, false, err
	}
	return ledger.Merge(confirmed, queued), fromCache, nil
}

// confirmed returns the confirmed rows and whether they came from the
// offline snapshot.
func (a *app) confirmed() ([]models.Transaction, bool, error) {
	confirmed, err := a.client.ListTransactions(remote.ListQuery{UserID: a.identity.UserID})
	if err == nil {
		if cerr := a.cache.Refresh(a.identity.UserID, confirmed, time.Now()); cerr != nil {
			slog.Warn("refresh offline snapshot", "err", cerr)
		}
		return confirmed, false, nil
	}
	if !remote.IsConnectivityError(err) {
		return nil, false, err
	}

	a.monitor.MarkOffline()
	cached, cerr := a.cache.List(a.identity.UserID)
	if cerr != nil {
		return nil, false, fmt.Errorf("remote unreachable and offline snapshot failed: %w", cerr)
	}
	return cached, true, nil
}

// findEntry resolves a user-supplied ref (server id or correlation id)
// against the merged view, for prior-state lookups before edits.
func (a *app) findEntry(ref string) (*ledger.Entry, error) {
	entries, _, err := a.entries()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Ref() == ref {
			return &entries[i], nil
		}
	}
	return nil, nil
}
