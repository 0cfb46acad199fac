package cmd

import (
	"fmt"

	"github.com/huangsam/bcat/core"
	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/internal/mapstore"
	"github.com/huangsam/bcat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mappingSetup loads minimal configuration needed for mapping operations.
// This is used by commands that need mapping access without full shared setup.
func mappingSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get mapping-related config values
	backendStr := viper.GetString("mapping-backend")
	connStr := viper.GetString("mapping-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidMappingBackends[backend]; !ok {
		return fmt.Errorf("invalid mapping backend %q. Must be sqlite, mysql, postgresql, or none", backendStr)
	}

	// Initialize the mapping store with the loaded config
	if err := mapstore.InitMapping(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize mapping store: %w", err)
	}
	provider = mapstore.Manager

	cfg.MappingBackend = backend
	cfg.MappingDBConnect = connStr
	cfg.Output = schema.TextOut
	cfg.OutputFile = viper.GetString("output-file")
	if output := schema.OutputMode(viper.GetString("output")); output != "" {
		if _, ok := schema.ValidOutputModes[output]; ok && output != schema.ParquetOut {
			cfg.Output = output
		}
	}
	cfg.Precision = contract.DefaultPrecision

	return nil
}

// mappingSetupWrapper wraps mappingSetup to provide PreRunE for mapping commands.
func mappingSetupWrapper(_ *cobra.Command, _ []string) error {
	return mappingSetup()
}

// mappingMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func mappingMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("mapping-backend")
	connStr := viper.GetString("mapping-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidMappingBackends[backend]; !ok {
		return fmt.Errorf("invalid mapping backend %q. Must be sqlite, mysql, postgresql, or none", backendStr)
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetMappingDBFilePath()
	}

	cfg.MappingBackend = backend
	cfg.MappingDBConnect = connStr

	return nil
}

// mappingMigrateSetupWrapper wraps mappingMigrateSetup to provide PreRunE for migrate command.
func mappingMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return mappingMigrateSetup()
}

// mappingCmd focused on mapping table management.
//
// Note: Mapping subcommands use minimal initialization (mappingSetup) instead
// of the full sharedSetup used by scoring commands. This avoids metrics input
// handling for simple mapping operations.
var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Inspect the team/scenario to pattern mapping table",
	Long: `Inspect the operator-supplied mapping table that overrides pattern
selection for known teams and scenarios.

The mapping table is read-only from bcat's point of view: rules are edited
out of band, and the engine loads immutable snapshots of them. Team rules
take precedence over scenario rules during resolution.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show active rules and backend connection info
  migrate - Run database schema migrations

Examples:
  # Show active rules from the default SQLite store
  bcat mapping status --mapping-backend sqlite

  # Inspect a shared PostgreSQL store
  BCAT_MAPPING_BACKEND=postgresql BCAT_MAPPING_DB_CONNECT="..." bcat mapping status`,
}

// mappingStatusCmd shows mapping rules and backend status.
var mappingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display active mapping rules and connection details",
	Long: `Show the current mapping snapshot and backend health.

Displays:
- Backend type and connection status
- Active team and scenario rules with their pattern references
- When the snapshot was fetched

Use this to:
- Verify mapping rules resolve the way you expect
- Check database connection health
- Debug why a conversation was not mapped

Examples:
  # Check mapping status
  bcat mapping status --mapping-backend sqlite`,
	PreRunE: mappingSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMapping(rootCtx, cfg, provider); err != nil {
			contract.LogFatal("Cannot display mapping", err)
		}
	},
}

// mappingMigrateCmd runs database migrations for the mapping store.
var mappingMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the mapping store.

Migrations allow:
- Upgrading to new schema versions when bcat is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  bcat mapping migrate --mapping-backend sqlite

  # Rollback to previous version
  bcat mapping migrate --mapping-backend sqlite --target-version 0`,
	PreRunE: mappingMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := mapstore.Migrate(cfg.MappingBackend, cfg.MappingDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
