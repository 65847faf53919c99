package database

import (
	"context"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
)

// ReviewRepositoryInterface defines the contract for review and product status storage.
type ReviewRepositoryInterface interface {
	Name() string
	Write(ctx context.Context, destination string, product domain.Product, records []domain.ReviewRecord) error
	UpdateStatus(ctx context.Context, product domain.Product, status string) error
	CountReviews(ctx context.Context, productURL string) (int, error)
}

// RunRepositoryInterface defines the contract for run history.
type RunRepositoryInterface interface {
	Start(ctx context.Context) (*Run, error)
	Finish(ctx context.Context, run *Run) error
	Latest(ctx context.Context, limit int) ([]*Run, error)
}

var (
	_ ReviewRepositoryInterface = (*ReviewRepository)(nil)
	_ RunRepositoryInterface    = (*RunRepository)(nil)
)
