package storage

import (
	"context"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
)

// DocumentStore is the subset of Storage the review indexer needs.
type DocumentStore interface {
	IndexDocument(ctx context.Context, index, id string, document any) error
	EnsureIndex(ctx context.Context, index string, mapping map[string]any) error
}

// Storage wraps an Elasticsearch client with logging and timeouts.
type Storage struct {
	client *es.Client
	logger logger.Interface
	opts   Options
}

// Ensure Storage implements DocumentStore
var _ DocumentStore = (*Storage)(nil)

// NewStorage creates a Storage around client.
func NewStorage(client *es.Client, log logger.Interface, opts Options) *Storage {
	if log == nil {
		log = logger.NewNoOp()
	}
	if opts.IndexTimeout <= 0 {
		opts.IndexTimeout = DefaultIndexTimeout
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = DefaultSearchTimeout
	}
	return &Storage{
		client: client,
		logger: log.WithComponent("storage"),
		opts:   opts,
	}
}
