// Package job runs the extraction engine over every product of a sheet and
// sends each product's reviews to the configured sinks.
package job

import (
	"context"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
)

// Extractor extracts the reviews of one product page. Implementations never
// fail; an unreachable page yields an empty slice.
type Extractor interface {
	Extract(ctx context.Context, productURL string) []domain.ReviewRecord
}

// SheetReader returns the products to process.
type SheetReader interface {
	Read(ctx context.Context) ([]domain.Product, error)
}

// RecordWriter persists the records of one product.
type RecordWriter interface {
	Write(ctx context.Context, destination string, product domain.Product, records []domain.ReviewRecord) error
}

// StatusSink records the outcome string of a product.
type StatusSink interface {
	UpdateStatus(ctx context.Context, product domain.Product, status string) error
}

// named is implemented by sinks that report a name for logs and summaries.
type named interface {
	Name() string
}

func sinkName(v any, fallback string) string {
	if n, ok := v.(named); ok {
		return n.Name()
	}
	return fallback
}
