// Package pending is the durable local queue of not-yet-confirmed
// mutations. It survives process restarts and is the only client-owned
// persistent state; confirmed records always belong to the remote store.
package pending

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/tawahcm/soquy/internal/models"
)

// formatVersion is stamped into the on-disk envelope so future format
// changes can be migrated instead of silently misread.
const formatVersion = 1

// envelope is the on-disk format: a versioned, ordered list of mutations.
type envelope struct {
	Version   int                      `json:"version"`
	Mutations []models.PendingMutation `json:"mutations"`
}

// Store persists pending mutations under a single storage key (file).
// Construct one per queue; there is no package-level singleton, so tests
// and multi-account setups can run isolated queues side by side.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path. The file is
// created lazily on first enqueue.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Enqueue appends a mutation to the end of the persisted list.
func (s *Store) Enqueue(m models.PendingMutation) error {
	return s.withLock(func() error {
		env, err := s.read()
		if err != nil {
			return err
		}
		env.Mutations = append(env.Mutations, m)
		return s.write(env)
	})
}

// DequeueByCorrelationID removes the entry with the matching correlation
// id. Idempotent: removing an absent id is a no-op.
func (s *Store) DequeueByCorrelationID(id string) error {
	return s.withLock(func() error {
		env, err := s.read()
		if err != nil {
			return err
		}
		kept := env.Mutations[:0]
		for _, m := range env.Mutations {
			if m.CorrelationID != id {
				kept = append(kept, m)
			}
		}
		if len(kept) == len(env.Mutations) {
			return nil
		}
		env.Mutations = kept
		return s.write(env)
	})
}

// UpdatePayload applies fn to the queued mutation with the matching
// correlation id as a single atomic read-modify-write. Returns false when
// no such entry exists.
func (s *Store) UpdatePayload(id string, fn func(*models.PendingMutation)) (bool, error) {
	found := false
	err := s.withLock(func() error {
		env, err := s.read()
		if err != nil {
			return err
		}
		for i := range env.Mutations {
			if env.Mutations[i].CorrelationID == id {
				fn(&env.Mutations[i])
				found = true
				return s.write(env)
			}
		}
		return nil
	})
	return found, err
}

// ListAll returns a snapshot of the queue in insertion order. Mutating the
// returned slice does not affect the store.
func (s *Store) ListAll() ([]models.PendingMutation, error) {
	var out []models.PendingMutation
	err := s.withLock(func() error {
		env, err := s.read()
		if err != nil {
			return err
		}
		out = append(out, env.Mutations...)
		return nil
	})
	return out, err
}

// Len returns the number of queued mutations.
func (s *Store) Len() (int, error) {
	list, err := s.ListAll()
	return len(list), err
}

// ReplaceAll overwrites the persisted list in one atomic write. Used by
// the resync runner to drop confirmed entries in a single operation.
func (s *Store) ReplaceAll(list []models.PendingMutation) error {
	return s.withLock(func() error {
		return s.write(&envelope{Version: formatVersion, Mutations: list})
	})
}

// Clear empties the queue.
func (s *Store) Clear() error {
	return s.ReplaceAll(nil)
}

// FindByCorrelationID returns the queued mutation with the given
// correlation id, or nil.
func (s *Store) FindByCorrelationID(id string) (*models.PendingMutation, error) {
	list, err := s.ListAll()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].CorrelationID == id {
			return &list[i], nil
		}
	}
	return nil, nil
}

func (s *Store) read() (*envelope, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &envelope{Version: formatVersion}, nil
		}
		return nil, fmt.Errorf("read pending store: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse pending store: %w", err)
	}
	if env.Version != formatVersion {
		return nil, fmt.Errorf("pending store version %d not supported", env.Version)
	}
	return &env, nil
}

// write persists the envelope atomically: temp file in the same dir, then
// rename, so a crash mid-write never leaves a torn queue.
func (s *Store) write(env *envelope) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create pending dir: %w", err)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pending store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "pending-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}

// withLock serializes multi-step access with an exclusive flock so a
// read-modify-write never loses an append from another process.
func (s *Store) withLock(fn func() error) error {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}
