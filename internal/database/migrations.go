package database

import (
	"context"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ DEFAULT NOW()
	);
`

// migrations contains all PostgreSQL database migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_message_sentiments_table",
		SQL: `
			CREATE TABLE IF NOT EXISTS message_sentiments (
				analysis_id TEXT PRIMARY KEY,
				message_id TEXT,
				session_id TEXT,
				category TEXT NOT NULL,
				compound DOUBLE PRECISION NOT NULL,
				intensity DOUBLE PRECISION NOT NULL,
				analysis_mode TEXT NOT NULL,
				confidence DOUBLE PRECISION NOT NULL,
				was_translated BOOLEAN NOT NULL DEFAULT FALSE,
				result JSONB NOT NULL,
				completed_at TIMESTAMPTZ NOT NULL,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_message_sentiments_session_id ON message_sentiments(session_id, completed_at);
			CREATE INDEX IF NOT EXISTS idx_message_sentiments_message_id ON message_sentiments(message_id);
		`,
	},
	{
		Version: 2,
		Name:    "add_category_index",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_message_sentiments_category ON message_sentiments(category);
		`,
	},
}

// Migrate runs all pending PostgreSQL migrations
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	db.logger.Debug("current schema version", "version", currentVersion)

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		db.logger.Info("applying migration", "version", migration.Version, "name", migration.Name)
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	db.logger.Info("database migrations complete", "version", migrations[len(migrations)-1].Version)
	return nil
}
