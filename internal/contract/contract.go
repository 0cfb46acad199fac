// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/bcat/schema"
)

// MappingStore defines the read side of the external team/scenario mapping
// table. The engine treats the table as read-only within a request; editing
// happens in an external tool. Implementations must be safe for one fetch at
// a time from the snapshot manager.
type MappingStore interface {
	// Fetch reads the full mapping table from the backend.
	Fetch(ctx context.Context) (*schema.MappingTable, error)

	// GetStatus returns health information about the store.
	GetStatus() (schema.MappingStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// MappingProvider hands out the current mapping snapshot to the engine.
// Snapshots are immutable; refreshing publishes a new one atomically so
// readers never observe a partially-updated table.
type MappingProvider interface {
	// Current returns the latest good snapshot, or nil when none has ever
	// been fetched.
	Current() *schema.MappingTable

	// Refresh fetches a new snapshot and publishes it. A fetch failure
	// leaves the previous snapshot in effect and returns the error.
	Refresh(ctx context.Context) error

	// GetStatus reports on the underlying store.
	GetStatus() (schema.MappingStatus, error)
}
