package job_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/run"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/job"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/metrics"
	"github.com/jonesrussell/north-cloud/reviews/testutils"
)

type fakeExtractor struct {
	mu        sync.Mutex
	records   map[string][]domain.ReviewRecord
	calls     []string
	deadlines []time.Duration
}

func (f *fakeExtractor) Extract(ctx context.Context, productURL string) []domain.ReviewRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, productURL)
	if deadline, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, time.Until(deadline))
	}
	if recs, ok := f.records[productURL]; ok {
		return recs
	}
	return []domain.ReviewRecord{}
}

type recordingSleeper struct {
	pauses []time.Duration
	err    error
}

func (s *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	s.pauses = append(s.pauses, d)
	return s.err
}

var (
	licuadora = domain.Product{Row: 2, Name: "Licuadora", URL: "https://articulo.mercadolibre.com.ar/MLA-1"}
	tetera    = domain.Product{Row: 3, Name: "Tetera", URL: "https://www.amazon.com/dp/B0ABC"}
)

func licuadoraReviews() []domain.ReviewRecord {
	return []domain.ReviewRecord{
		{Content: "Muy buena, potente.", Rating: domain.RatingPtr(5), Marketplace: domain.MarketplaceMercadoLibre},
		{Content: "Hace mucho ruido.", Marketplace: domain.MarketplaceMercadoLibre},
	}
}

func testRunConfig() run.Config {
	return run.Config{
		ProductTimeout: time.Minute,
		PauseMin:       time.Second,
		PauseMax:       time.Second,
		OutputDir:      "out",
		Sinks:          []string{run.SinkJSON},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	recs := licuadoraReviews()
	extractor := &fakeExtractor{records: map[string][]domain.ReviewRecord{licuadora.URL: recs}}

	sheet := &testutils.MockSheetReader{}
	sheet.On("Read", mock.Anything).Return([]domain.Product{licuadora, tetera}, nil)

	writer := &testutils.MockRecordWriter{}
	writer.On("Write", mock.Anything, "out", licuadora, recs).Return(nil).Once()
	writer.On("Write", mock.Anything, "out", tetera, mock.Anything).Return(nil).Once()

	status := &testutils.MockStatusSink{}
	status.On("UpdateStatus", mock.Anything, licuadora, "2 reviews").Return(nil).Once()
	status.On("UpdateStatus", mock.Anything, tetera, job.StatusNoReviews).Return(nil).Once()

	sleeper := &recordingSleeper{}
	m := metrics.NewMetrics()

	runner := job.NewRunner(extractor, sheet, testRunConfig(), logger.NewNoOp(),
		job.WithWriters(writer),
		job.WithStatusSinks(status),
		job.WithMetrics(m),
		job.WithSleeper(sleeper.sleep),
	)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Reviews)
	assert.Equal(t, 1, summary.Empty)
	assert.Zero(t, summary.Failed)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, domain.MarketplaceMercadoLibre, summary.Results[0].Marketplace)
	assert.Equal(t, domain.MarketplaceAmazon, summary.Results[1].Marketplace)
	assert.Equal(t, "out", summary.Results[0].Destination)

	assert.Equal(t, []string{licuadora.URL, tetera.URL}, extractor.calls)
	assert.Equal(t, []time.Duration{time.Second}, sleeper.pauses, "pause only between products")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Processed)
	assert.Equal(t, int64(2), snap.Reviews)
	assert.Equal(t, int64(1), snap.Empty)

	writer.AssertExpectations(t)
	status.AssertExpectations(t)
	sheet.AssertExpectations(t)
}

func TestRunner_ProductTimeout(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{}
	cfg := testRunConfig()
	cfg.ProductTimeout = 30 * time.Second

	runner := job.NewRunner(extractor, nil, cfg, nil)
	result := runner.ProcessProduct(context.Background(), tetera)

	require.Len(t, extractor.deadlines, 1)
	assert.LessOrEqual(t, extractor.deadlines[0], 30*time.Second)
	assert.Greater(t, extractor.deadlines[0], 25*time.Second)
	assert.Equal(t, job.StatusNoReviews, result.Status)
	assert.NoError(t, result.Err)
}

func TestRunner_WriterError(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{records: map[string][]domain.ReviewRecord{licuadora.URL: licuadoraReviews()}}

	failing := &testutils.MockRecordWriter{}
	failing.On("Write", mock.Anything, "out", licuadora, mock.Anything).Return(errors.New("disk full"))

	status := &testutils.MockStatusSink{}
	status.On("UpdateStatus", mock.Anything, licuadora, "error: writer 0: disk full").Return(nil)

	m := metrics.NewMetrics()
	runner := job.NewRunner(extractor, nil, testRunConfig(), nil,
		job.WithWriters(failing),
		job.WithStatusSinks(status),
		job.WithMetrics(m),
	)

	result := runner.ProcessProduct(context.Background(), licuadora)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "disk full")
	assert.Equal(t, 2, result.Reviews)
	assert.Equal(t, int64(1), m.GetErrorCount())
	status.AssertExpectations(t)
}

func TestRunner_StatusFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	status := &testutils.MockStatusSink{}
	status.On("UpdateStatus", mock.Anything, tetera, job.StatusNoReviews).Return(errors.New("sheet locked"))

	runner := job.NewRunner(&fakeExtractor{}, nil, testRunConfig(), nil, job.WithStatusSinks(status))
	result := runner.ProcessProduct(context.Background(), tetera)

	require.NoError(t, result.Err)
	assert.Equal(t, job.StatusNoReviews, result.Status)
	status.AssertExpectations(t)
}

func TestRunner_SheetErrors(t *testing.T) {
	t.Parallel()

	t.Run("read failure", func(t *testing.T) {
		sheet := &testutils.MockSheetReader{}
		sheet.On("Read", mock.Anything).Return(nil, errors.New("permission denied"))

		_, err := job.NewRunner(&fakeExtractor{}, sheet, testRunConfig(), nil).Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("no products", func(t *testing.T) {
		sheet := &testutils.MockSheetReader{}
		sheet.On("Read", mock.Anything).Return([]domain.Product{}, nil)

		_, err := job.NewRunner(&fakeExtractor{}, sheet, testRunConfig(), nil).Run(context.Background())
		require.ErrorIs(t, err, job.ErrNoProducts)
	})
}

func TestRunner_CancelledDuringPause(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{}
	sheet := &testutils.MockSheetReader{}
	sheet.On("Read", mock.Anything).Return([]domain.Product{licuadora, tetera}, nil)

	sleeper := &recordingSleeper{err: context.Canceled}
	runner := job.NewRunner(extractor, sheet, testRunConfig(), nil, job.WithSleeper(sleeper.sleep))

	summary, err := runner.Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, []string{licuadora.URL}, extractor.calls)
}

func TestRunner_PauseDuration(t *testing.T) {
	t.Parallel()

	cfg := testRunConfig()
	cfg.PauseMin = 2 * time.Second
	cfg.PauseMax = 5 * time.Second
	runner := job.NewRunner(&fakeExtractor{}, nil, cfg, nil)

	for range 50 {
		d := runner.PauseDuration()
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 5*time.Second)
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		err  error
		want string
	}{
		{"no reviews", 0, nil, "no reviews found"},
		{"one review", 1, nil, "1 reviews"},
		{"many reviews", 12, nil, "12 reviews"},
		{"write error", 3, errors.New("json: disk full"), "error: json: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, job.StatusFor(tt.n, tt.err))
		})
	}
}
