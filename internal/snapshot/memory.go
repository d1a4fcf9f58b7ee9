package snapshot

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests and when no Redis is
// configured.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots []Snapshot
	retention int
}

// NewMemoryStore creates an in-memory snapshot store.
func NewMemoryStore(retention int) *MemoryStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &MemoryStore{retention: retention}
}

// List returns stored snapshots, most recent first.
func (s *MemoryStore) List(ctx context.Context) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Snapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out, nil
}

// Save prepends a snapshot and evicts the oldest past the cap.
func (s *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append([]Snapshot{snap}, s.snapshots...)
	if len(s.snapshots) > s.retention {
		s.snapshots = s.snapshots[:s.retention]
	}
	return nil
}

// DeleteAll clears the history.
func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = nil
	return nil
}
