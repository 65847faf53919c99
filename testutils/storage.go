package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
)

// MockRecordWriter is a testify mock of job.RecordWriter.
type MockRecordWriter struct {
	mock.Mock
}

// Write records the call.
func (m *MockRecordWriter) Write(
	ctx context.Context,
	destination string,
	product domain.Product,
	records []domain.ReviewRecord,
) error {
	args := m.Called(ctx, destination, product, records)
	return args.Error(0)
}

// MockStatusSink is a testify mock of job.StatusSink.
type MockStatusSink struct {
	mock.Mock
}

// UpdateStatus records the call.
func (m *MockStatusSink) UpdateStatus(ctx context.Context, product domain.Product, status string) error {
	args := m.Called(ctx, product, status)
	return args.Error(0)
}

// MockSheetReader is a testify mock of job.SheetReader.
type MockSheetReader struct {
	mock.Mock
}

// Read returns the configured products.
func (m *MockSheetReader) Read(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	products, ok := args.Get(0).([]domain.Product)
	if !ok {
		return nil, ErrInvalidResult
	}
	return products, args.Error(1)
}
