package mapstore

import (
	"context"
	"sync/atomic"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/schema"
)

// SnapshotManager publishes immutable mapping snapshots to the engine.
// Refresh fetches into a fresh table and then swaps a single pointer, so
// readers never block on the (possibly slow) backend fetch and never see a
// partially-updated table. A failed fetch keeps the last good snapshot.
type SnapshotManager struct {
	store   contract.MappingStore
	current atomic.Pointer[schema.MappingTable]
}

var _ contract.MappingProvider = &SnapshotManager{} // Compile-time check

// NewSnapshotManager wraps a mapping store in a snapshot manager. No fetch
// happens here; call Refresh to load the first snapshot.
func NewSnapshotManager(store contract.MappingStore) *SnapshotManager {
	return &SnapshotManager{store: store}
}

// Current returns the latest good snapshot, or nil when no fetch has ever
// succeeded. Safe for concurrent use.
func (sm *SnapshotManager) Current() *schema.MappingTable {
	return sm.current.Load()
}

// Refresh fetches a new snapshot and publishes it atomically. On failure the
// previous snapshot remains in effect and the error is returned.
func (sm *SnapshotManager) Refresh(ctx context.Context) error {
	table, err := sm.store.Fetch(ctx)
	if err != nil {
		return err
	}
	sm.current.Store(table)
	return nil
}

// GetStatus reports on the underlying store plus the published snapshot.
func (sm *SnapshotManager) GetStatus() (schema.MappingStatus, error) {
	status, err := sm.store.GetStatus()
	if err != nil {
		return status, err
	}
	if table := sm.Current(); table != nil {
		status.FetchedAt = table.FetchedAt
	}
	return status, nil
}
