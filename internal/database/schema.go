package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements create the tables used by the repositories. Every
// statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		url_hash TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		marketplace VARCHAR(32) NOT NULL DEFAULT 'generic',
		status TEXT NOT NULL DEFAULT '',
		review_count INTEGER NOT NULL DEFAULT 0,
		last_extracted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		marketplace VARCHAR(32) NOT NULL,
		content TEXT NOT NULL,
		rating NUMERIC(2, 1),
		title TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		review_date TEXT NOT NULL DEFAULT '',
		extracted_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_product_id ON reviews(product_id)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ,
		products INTEGER NOT NULL DEFAULT 0,
		reviews INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		empty INTEGER NOT NULL DEFAULT 0
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
