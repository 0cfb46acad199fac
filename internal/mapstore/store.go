// Package mapstore persists the team/scenario to pattern mapping table.
package mapstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// mappingTable is the name of the table holding mapping rules.
const mappingTable = "bcat_mapping"

// Entry kinds stored in the mapping table. Teams and scenarios are
// independent namespaces keyed by (kind, key).
const (
	teamKind     = "team"
	scenarioKind = "scenario"
)

// MappingStoreImpl reads mapping rules from a SQL backend.
type MappingStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.MappingStore = &MappingStoreImpl{} // Compile-time check

// NewMappingStore initializes a MappingStore for the given backend.
// The none backend returns a store that always fetches an empty table.
func NewMappingStore(backend schema.DatabaseBackend, connStr string) (contract.MappingStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetMappingDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite mapping store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL mapping store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=bcat
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL mapping store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return &MappingStoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported mapping backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := db.Exec(getCreateTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", mappingTable, err)
	}

	return &MappingStoreImpl{db: db, backend: backend}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_kind VARCHAR(16) NOT NULL,
				entry_key VARCHAR(255) NOT NULL,
				pattern_ref VARCHAR(255) NOT NULL,
				updated_at BIGINT NOT NULL,
				PRIMARY KEY (entry_kind, entry_key)
			);
		`, mappingTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_kind TEXT NOT NULL,
				entry_key TEXT NOT NULL,
				pattern_ref TEXT NOT NULL,
				updated_at BIGINT NOT NULL,
				PRIMARY KEY (entry_kind, entry_key)
			);
		`, mappingTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_kind TEXT NOT NULL,
				entry_key TEXT NOT NULL,
				pattern_ref TEXT NOT NULL,
				updated_at INTEGER NOT NULL,
				PRIMARY KEY (entry_kind, entry_key)
			);
		`, mappingTable)
	}
}

// Fetch reads the full mapping table in one pass.
func (ms *MappingStoreImpl) Fetch(ctx context.Context) (*schema.MappingTable, error) {
	table := schema.EmptyMappingTable()
	table.FetchedAt = time.Now()

	if ms.backend == schema.NoneBackend || ms.db == nil {
		return table, nil
	}

	query := fmt.Sprintf(`SELECT entry_kind, entry_key, pattern_ref FROM %s`, mappingTable)
	rows, err := ms.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mapping table: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind, key, ref string
		if err := rows.Scan(&kind, &key, &ref); err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		switch kind {
		case teamKind:
			table.Teams[key] = ref
		case scenarioKind:
			table.Scenarios[key] = ref
		}
		// Unknown kinds are skipped; they may belong to a newer schema.
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mapping rows: %w", err)
	}

	return table, nil
}

// Put inserts or replaces one mapping rule. Used by tests and seeding
// scripts; the CLI itself never edits the table.
func (ms *MappingStoreImpl) Put(ctx context.Context, kind, key, patternRef string) error {
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return nil
	}
	if kind != teamKind && kind != scenarioKind {
		return fmt.Errorf("unsupported mapping kind: %s", kind)
	}

	query := ms.getUpsertQuery()
	_, err := ms.db.ExecContext(ctx, query, kind, key, patternRef, time.Now().Unix())
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ms *MappingStoreImpl) getUpsertQuery() string {
	switch ms.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (entry_kind, entry_key, pattern_ref, updated_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE pattern_ref = new.pattern_ref, updated_at = new.updated_at`, mappingTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (entry_kind, entry_key, pattern_ref, updated_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (entry_kind, entry_key) DO UPDATE SET pattern_ref = EXCLUDED.pattern_ref, updated_at = EXCLUDED.updated_at`, mappingTable)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (entry_kind, entry_key, pattern_ref, updated_at) VALUES (?, ?, ?, ?)`, mappingTable)
	}
}

// GetStatus returns status information about the mapping store.
func (ms *MappingStoreImpl) GetStatus() (schema.MappingStatus, error) {
	status := schema.MappingStatus{
		Backend:   string(ms.backend),
		Connected: ms.db != nil,
	}
	if ms.db == nil {
		return status, nil
	}

	query := fmt.Sprintf(`SELECT entry_kind, COUNT(*) FROM %s GROUP BY entry_kind`, mappingTable)
	rows, err := ms.db.Query(query)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			status.Error = err.Error()
			return status, nil
		}
		switch kind {
		case teamKind:
			status.TeamRules = count
		case scenarioKind:
			status.ScenarioRules = count
		}
	}
	if err := rows.Err(); err != nil {
		status.Error = err.Error()
	}
	return status, nil
}

// Close closes the underlying DB connection.
func (ms *MappingStoreImpl) Close() error {
	if ms.db != nil {
		return ms.db.Close()
	}
	return nil
}
