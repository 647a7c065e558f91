package pipeline

import (
	"context"
	"database/sql"
	"fmt"
)

// RunRecorder persists batch run bookkeeping.
type RunRecorder interface {
	CreateRun(ctx context.Context, run *BatchRun) error
	UpdateRun(ctx context.Context, run *BatchRun) error
}

// Repository handles database operations for batch run tracking
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new batch run repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateRun inserts a run record and fills run.ID
func (r *Repository) CreateRun(ctx context.Context, run *BatchRun) error {
	query := `
		INSERT INTO batch_runs (status, total_owners, failed_owners, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		run.Status, run.TotalOwners, run.FailedOwners, run.StartedAt,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("create batch run: %w", err)
	}

	return nil
}

// UpdateRun updates an existing run record
func (r *Repository) UpdateRun(ctx context.Context, run *BatchRun) error {
	query := `
		UPDATE batch_runs
		SET status = $1, failed_owners = $2, completed_at = $3, error_message = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query,
		run.Status, run.FailedOwners, run.CompletedAt, run.ErrorMessage, run.ID,
	)
	if err != nil {
		return fmt.Errorf("update batch run %d: %w", run.ID, err)
	}

	return nil
}

// GetRun retrieves a run by ID
func (r *Repository) GetRun(ctx context.Context, id int64) (*BatchRun, error) {
	query := `
		SELECT id, status, total_owners, failed_owners, started_at, completed_at, error_message
		FROM batch_runs
		WHERE id = $1
	`

	run := &BatchRun{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Status, &run.TotalOwners, &run.FailedOwners,
		&run.StartedAt, &run.CompletedAt, &run.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}

	return run, nil
}
