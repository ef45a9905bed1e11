package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Schema creates the run ledger tables
const Schema = `
	CREATE TABLE IF NOT EXISTS bootstrap_runs (
		id UUID PRIMARY KEY,
		client_code VARCHAR(64) NOT NULL,
		outcome VARCHAR(16) NOT NULL,
		error TEXT,
		products INTEGER NOT NULL DEFAULT 0,
		customers INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_bootstrap_runs_client ON bootstrap_runs(client_code, started_at DESC);

	CREATE TABLE IF NOT EXISTS verified_documents (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES bootstrap_runs(id),
		number VARCHAR(64) NOT NULL,
		type VARCHAR(32) NOT NULL,
		total NUMERIC(14, 4) NOT NULL,
		scenario VARCHAR(255) NOT NULL,
		verified_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_verified_documents_run ON verified_documents(run_id);
	CREATE INDEX IF NOT EXISTS idx_verified_documents_number ON verified_documents(number, type);
	`

// RunMigrations creates the ledger tables on db
func RunMigrations(db *sql.DB, logger *slog.Logger) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create ledger tables: %w", err)
	}

	logger.Debug("database migrations completed")
	return nil
}
