package mapstore

import (
	"fmt"
	"sync"

	"github.com/huangsam/bcat/schema"
)

// Global snapshot manager instance for main logic.
var (
	Manager   *SnapshotManager
	initOnce  sync.Once
	closeOnce sync.Once
	store     *MappingStoreImpl
)

// InitMapping initializes the global mapping store and snapshot manager.
// Safe to call more than once; only the first call takes effect.
func InitMapping(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		s, err := NewMappingStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize mapping store: %w", err)
			return
		}
		store = s.(*MappingStoreImpl)
		Manager = NewSnapshotManager(s)
	})

	return initErr
}

// Store returns the global mapping store, or nil before InitMapping.
func Store() *MappingStoreImpl {
	return store
}

// CloseMapping should be called on application shutdown.
func CloseMapping() { // called in main defer
	closeOnce.Do(func() {
		if store != nil {
			_ = store.Close()
		}
	})
}
