package wizard

import (
	"context"
	"errors"
	"sync"
)

// ErrSnapshotNotFound is returned when no snapshot exists under the key.
var ErrSnapshotNotFound = errors.New("wizard snapshot not found")

// PersistenceAdapter stores wizard snapshots as opaque blobs. The store
// writes through it on every mutation so a session survives restarts.
type PersistenceAdapter interface {
	Save(ctx context.Context, key string, blob []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// MemoryAdapter keeps snapshots in process memory. It is the default for
// tests and for embedders that do not need persistence.
type MemoryAdapter struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ PersistenceAdapter = (*MemoryAdapter)(nil)

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{blobs: make(map[string][]byte)}
}

func (a *MemoryAdapter) Save(_ context.Context, key string, blob []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	a.blobs[key] = stored
	return nil
}

func (a *MemoryAdapter) Load(_ context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	blob, ok := a.blobs[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.blobs, key)
	return nil
}
