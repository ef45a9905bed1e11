package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/posqa/posuite/internal/database"
	"github.com/posqa/posuite/internal/models"
)

// ErrRunNotFound is returned when the ledger holds no matching run
var ErrRunNotFound = errors.New("bootstrap run not found")

// LedgerRepository stores bootstrap runs and the sales documents the
// scenarios verified during them
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a ledger repository on the shared connection
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		db: database.DB,
	}
}

// NewLedgerRepositoryWithDB creates a ledger repository with a specific database connection
func NewLedgerRepositoryWithDB(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{
		db: db,
	}
}

// CreateRun inserts a started run
func (r *LedgerRepository) CreateRun(ctx context.Context, run *models.BootstrapRun) error {
	query := `
		INSERT INTO bootstrap_runs (id, client_code, outcome, started_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, run.ID, run.ClientCode, run.Outcome, run.StartedAt); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the outcome of a run
func (r *LedgerRepository) FinishRun(ctx context.Context, run *models.BootstrapRun) error {
	query := `
		UPDATE bootstrap_runs
		SET outcome = $1, error = NULLIF($2, ''), products = $3, customers = $4, finished_at = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		run.Outcome,
		run.Error,
		run.Products,
		run.Customers,
		run.FinishedAt,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

const runColumns = `
	id, client_code, outcome, COALESCE(error, ''), products, customers,
	started_at, COALESCE(finished_at, started_at)
`

func scanRun(row *sql.Row) (*models.BootstrapRun, error) {
	run := &models.BootstrapRun{}
	err := row.Scan(
		&run.ID,
		&run.ClientCode,
		&run.Outcome,
		&run.Error,
		&run.Products,
		&run.Customers,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run by id
func (r *LedgerRepository) GetRun(ctx context.Context, id string) (*models.BootstrapRun, error) {
	query := `SELECT ` + runColumns + ` FROM bootstrap_runs WHERE id = $1`
	return scanRun(r.db.QueryRowContext(ctx, query, id))
}

// LatestRun retrieves the most recently started run of the client
func (r *LedgerRepository) LatestRun(ctx context.Context, clientCode string) (*models.BootstrapRun, error) {
	query := `SELECT ` + runColumns + `
		FROM bootstrap_runs
		WHERE client_code = $1
		ORDER BY started_at DESC
		LIMIT 1`
	return scanRun(r.db.QueryRowContext(ctx, query, clientCode))
}

// RecordDocument stores a verified sales document
func (r *LedgerRepository) RecordDocument(ctx context.Context, doc *models.VerifiedDocument) error {
	query := `
		INSERT INTO verified_documents (id, run_id, number, type, total, scenario, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.RunID,
		doc.Number,
		doc.Type,
		doc.Total,
		doc.Scenario,
		doc.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record document: %w", err)
	}
	return nil
}

// DocumentsForRun lists the documents verified during a run, oldest first
func (r *LedgerRepository) DocumentsForRun(ctx context.Context, runID string) ([]models.VerifiedDocument, error) {
	query := `
		SELECT id, run_id, number, type, total, scenario, verified_at
		FROM verified_documents
		WHERE run_id = $1
		ORDER BY verified_at
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.VerifiedDocument
	for rows.Next() {
		var doc models.VerifiedDocument
		if err := rows.Scan(
			&doc.ID,
			&doc.RunID,
			&doc.Number,
			&doc.Type,
			&doc.Total,
			&doc.Scenario,
			&doc.VerifiedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
