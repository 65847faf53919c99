package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/run"
	"github.com/jonesrussell/north-cloud/reviews/internal/database"
	"github.com/jonesrussell/north-cloud/reviews/internal/job"
	"github.com/jonesrussell/north-cloud/reviews/internal/output"
	"github.com/jonesrussell/north-cloud/reviews/internal/sheet"
	"github.com/jonesrussell/north-cloud/reviews/internal/storage"
)

// Sinks holds the writers and status sinks enabled for a run.
type Sinks struct {
	Writers  []job.RecordWriter
	Statuses []job.StatusSink
	// Runs is set when the postgres sink is enabled.
	Runs *database.RunRepository

	db *sqlx.DB
}

// Close releases the database connection, if any.
func (s *Sinks) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateReviewIndexer connects to Elasticsearch and returns an indexer for
// the configured review index.
func CreateReviewIndexer(ctx context.Context, deps CommandDeps) (*storage.ReviewIndexer, error) {
	client, err := storage.NewClient(ctx, deps.Config.Elasticsearch, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	store := storage.NewStorage(client, deps.Logger, storage.DefaultOptions())
	indexer := storage.NewReviewIndexer(store, deps.Config.Elasticsearch.IndexName, deps.Logger)

	if ensureErr := indexer.EnsureIndex(ctx); ensureErr != nil {
		return nil, fmt.Errorf("ensure review index: %w", ensureErr)
	}
	return indexer, nil
}

// CreateSinks builds the sheet plus every sink named in run.sinks. The sheet
// is always a status sink.
func CreateSinks(ctx context.Context, deps CommandDeps, csv *sheet.CSVSheet) (*Sinks, error) {
	cfg := deps.Config
	sinks := &Sinks{Statuses: []job.StatusSink{csv}}

	if cfg.Run.HasSink(run.SinkJSON) {
		sinks.Writers = append(sinks.Writers, output.NewJSONWriter(cfg.Run.OutputDir, deps.Logger))
	}

	if cfg.Run.HasSink(run.SinkElasticsearch) {
		indexer, err := CreateReviewIndexer(ctx, deps)
		if err != nil {
			return nil, err
		}
		sinks.Writers = append(sinks.Writers, indexer)
	}

	if cfg.Run.HasSink(run.SinkPostgres) {
		db, err := database.NewPostgresConnection(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if schemaErr := database.EnsureSchema(ctx, db); schemaErr != nil {
			return nil, errors.Join(schemaErr, db.Close())
		}
		repo := database.NewReviewRepository(db, deps.Logger)
		sinks.db = db
		sinks.Writers = append(sinks.Writers, repo)
		sinks.Statuses = append(sinks.Statuses, repo)
		sinks.Runs = database.NewRunRepository(db)
	}

	return sinks, nil
}
