//go:build basic

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBcatScoringFlow exercises the main CLI surfaces end to end with the
// default (none) mapping backend.
func TestBcatScoringFlow(t *testing.T) {
	metricsPath := writeMetricsFixture(t, t.TempDir())

	// List the catalog
	err := runBcatCommand(t, "patterns")
	require.NoError(t, err)

	// Auto-best scoring with leaderboard
	err = runBcatCommand(t, "score", metricsPath, "--limit", "5")
	require.NoError(t, err)

	// Explicit pattern by name and by number
	err = runBcatCommand(t, "score", metricsPath, "--pattern", "discovery")
	require.NoError(t, err)
	err = runBcatCommand(t, "score", metricsPath, "--pattern", "15")
	require.NoError(t, err)

	// Ranked leaderboard only
	err = runBcatCommand(t, "best", metricsPath, "--limit", "3")
	require.NoError(t, err)

	// JSON and CSV outputs
	err = runBcatCommand(t, "score", metricsPath, "--output", "json")
	require.NoError(t, err)
	err = runBcatCommand(t, "score", metricsPath, "--output", "csv")
	require.NoError(t, err)
}

// TestBcatWithSQLiteMapping runs migrations and mapping status against a
// throwaway SQLite database.
func TestBcatWithSQLiteMapping(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mapping.db")

	_ = os.Setenv("BCAT_MAPPING_BACKEND", "sqlite")
	_ = os.Setenv("BCAT_MAPPING_DB_CONNECT", dbPath)
	defer func() { _ = os.Unsetenv("BCAT_MAPPING_BACKEND") }()
	defer func() { _ = os.Unsetenv("BCAT_MAPPING_DB_CONNECT") }()

	// Run migrations to latest
	err := runBcatCommand(t, "mapping", "migrate")
	require.NoError(t, err)

	// Check mapping status
	err = runBcatCommand(t, "mapping", "status")
	require.NoError(t, err)

	// Scoring still works with an empty mapping table
	metricsPath := writeMetricsFixture(t, t.TempDir())
	err = runBcatCommand(t, "score", metricsPath)
	require.NoError(t, err)
}

// TestBcatParquetExport writes a score to a Parquet file.
func TestBcatParquetExport(t *testing.T) {
	dir := t.TempDir()
	metricsPath := writeMetricsFixture(t, dir)
	outPath := filepath.Join(dir, "score.parquet")

	err := runBcatCommand(t, "score", metricsPath, "--output", "parquet", "--output-file", outPath)
	require.NoError(t, err)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
