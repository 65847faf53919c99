package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/reviews/internal/database"
)

func newRunRepo(t *testing.T) (*database.RunRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := database.NewRunRepository(sqlx.NewDb(mockDB, "postgres"))
	repo.SetClock(func() time.Time { return fixedNow })

	return repo, mock, func() { mockDB.Close() }
}

func TestRunRepository_StartFinish(t *testing.T) {
	repo, mock, cleanup := newRunRepo(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(sqlmock.AnyArg(), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	run, err := repo.Start(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, fixedNow, run.StartedAt)

	run.Products = 3
	run.Reviews = 12
	run.Failed = 1

	mock.ExpectExec("UPDATE runs").
		WithArgs(run.ID.String(), fixedNow, 3, 12, 1, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Finish(context.Background(), run))
	require.NotNil(t, run.FinishedAt)
	expectationsMet(t, mock)
}

func TestRunRepository_FinishUnknownRun(t *testing.T) {
	repo, mock, cleanup := newRunRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE runs").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Finish(context.Background(), &database.Run{ID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	expectationsMet(t, mock)
}

func TestRunRepository_Latest(t *testing.T) {
	repo, mock, cleanup := newRunRepo(t)
	defer cleanup()

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "started_at", "finished_at", "products", "reviews", "failed", "empty"}).
		AddRow(id.String(), fixedNow, fixedNow, 4, 20, 0, 1)

	mock.ExpectQuery("SELECT id, started_at").WithArgs(10).WillReturnRows(rows)

	runs, err := repo.Latest(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 20, runs[0].Reviews)
	assert.Equal(t, 1, runs[0].Empty)
	expectationsMet(t, mock)
}

func TestEnsureSchema(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	for _, table := range []string{"products", "reviews", "idx_reviews_product_id", "runs"} {
		mock.ExpectExec(table).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, database.EnsureSchema(context.Background(), sqlx.NewDb(mockDB, "postgres")))
	expectationsMet(t, mock)
}
