package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// defaultRunLimit bounds Latest when no limit is given.
const defaultRunLimit = 10

// Run is one batch run over the product sheet.
type Run struct {
	ID         uuid.UUID  `db:"id"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
	Products   int        `db:"products"`
	Reviews    int        `db:"reviews"`
	Failed     int        `db:"failed"`
	Empty      int        `db:"empty"`
}

// RunRepository handles database operations for run history.
type RunRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db, now: time.Now}
}

// Start inserts a new run and returns it.
func (r *RunRepository) Start(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:        uuid.New(),
		StartedAt: r.now().UTC(),
	}

	query := `INSERT INTO runs (id, started_at) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, run.ID, run.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// Finish stores the counters of run and marks it finished.
func (r *RunRepository) Finish(ctx context.Context, run *Run) error {
	finished := r.now().UTC()
	run.FinishedAt = &finished

	query := `
		UPDATE runs
		SET finished_at = $2, products = $3, reviews = $4, failed = $5, empty = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		run.ID, finished, run.Products, run.Reviews, run.Failed, run.Empty,
	)
	return execRequireRows(result, err, fmt.Errorf("run not found: %s", run.ID))
}

// Latest returns the most recent runs, newest first.
func (r *RunRepository) Latest(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	query := `
		SELECT id, started_at, finished_at, products, reviews, failed, empty
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	runs := make([]*Run, 0, limit)
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
