package mapstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/bcat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *MappingStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "mapping.db")
	s, err := NewMappingStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err, "Failed to initialize SQLite store")
	t.Cleanup(func() { _ = s.Close() })
	return s.(*MappingStoreImpl)
}

func TestMappingStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	ms := newSQLiteStore(t)

	require.NoError(t, ms.Put(ctx, teamKind, "sales-east", "15"))
	require.NoError(t, ms.Put(ctx, teamKind, "support", "discovery"))
	require.NoError(t, ms.Put(ctx, scenarioKind, "renewal", "7"))

	table, err := ms.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "15", table.Teams["sales-east"])
	assert.Equal(t, "discovery", table.Teams["support"])
	assert.Equal(t, "7", table.Scenarios["renewal"])
	assert.False(t, table.FetchedAt.IsZero(), "FetchedAt should be stamped")
}

func TestMappingStoreUpsert(t *testing.T) {
	ctx := context.Background()
	ms := newSQLiteStore(t)

	require.NoError(t, ms.Put(ctx, teamKind, "sales-east", "15"))
	require.NoError(t, ms.Put(ctx, teamKind, "sales-east", "21"))

	table, err := ms.Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, table.Teams, 1, "replacing a rule should not add a row")
	assert.Equal(t, "21", table.Teams["sales-east"])
}

func TestMappingStorePutRejectsUnknownKind(t *testing.T) {
	ms := newSQLiteStore(t)
	err := ms.Put(context.Background(), "region", "emea", "3")
	assert.ErrorContains(t, err, "unsupported mapping kind")
}

func TestMappingStoreStatus(t *testing.T) {
	ctx := context.Background()
	ms := newSQLiteStore(t)

	require.NoError(t, ms.Put(ctx, teamKind, "sales-east", "15"))
	require.NoError(t, ms.Put(ctx, teamKind, "support", "3"))
	require.NoError(t, ms.Put(ctx, scenarioKind, "renewal", "7"))

	status, err := ms.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TeamRules)
	assert.Equal(t, 1, status.ScenarioRules)
	assert.Empty(t, status.Error)
}

func TestNoneBackend(t *testing.T) {
	s, err := NewMappingStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	table, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table.Teams)
	assert.Empty(t, table.Scenarios)

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	// Writes are a silent no-op without a database.
	assert.NoError(t, s.(*MappingStoreImpl).Put(context.Background(), teamKind, "x", "1"))
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewMappingStore(schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported mapping backend")
}

func TestGlobalInit(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		dbPath := filepath.Join(t.TempDir(), "mapping.db")
		err := InitMapping(schema.SQLiteBackend, dbPath)
		assert.NoError(t, err, "Failed to initialize mapping store")
		assert.NotNil(t, Manager, "Manager should not be nil")
		assert.NotNil(t, Store(), "Store should not be nil")

		CloseMapping()
	})

	t.Run("idempotent setup", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		dbPath := filepath.Join(t.TempDir(), "mapping.db")
		err1 := InitMapping(schema.SQLiteBackend, dbPath)
		err2 := InitMapping(schema.SQLiteBackend, dbPath)

		assert.NoError(t, err1, "First init should not fail")
		assert.NoError(t, err2, "Second init should not fail")

		// Multiple closes should be safe (sync.Once)
		CloseMapping()
		CloseMapping()
	})
}
