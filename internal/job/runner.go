package job

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/run"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
	"github.com/jonesrussell/north-cloud/reviews/internal/metrics"
)

// Status strings written back for each product.
const (
	StatusNoReviews   = "no reviews found"
	statusErrorPrefix = "error: "
)

// ErrNoProducts is returned when the sheet yields nothing to process.
var ErrNoProducts = errors.New("no products to process")

// Summary describes a finished run.
type Summary struct {
	Results   []domain.ProductResult
	Processed int
	Reviews   int
	Failed    int
	Empty     int
	Duration  time.Duration
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Runner processes the products of a sheet one at a time.
type Runner struct {
	extractor Extractor
	sheet     SheetReader
	writers   []RecordWriter
	statuses  []StatusSink
	cfg       run.Config
	metrics   *metrics.Metrics
	logger    logger.Interface
	sleep     Sleeper
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithWriters adds record writers.
func WithWriters(writers ...RecordWriter) Option {
	return func(r *Runner) {
		r.writers = append(r.writers, writers...)
	}
}

// WithStatusSinks adds status sinks.
func WithStatusSinks(sinks ...StatusSink) Option {
	return func(r *Runner) {
		r.statuses = append(r.statuses, sinks...)
	}
}

// WithMetrics sets the metrics the runner records into.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithSleeper replaces the pause between products.
func WithSleeper(s Sleeper) Option {
	return func(r *Runner) {
		r.sleep = s
	}
}

// NewRunner creates a runner.
func NewRunner(
	extractor Extractor,
	sheet SheetReader,
	cfg run.Config,
	log logger.Interface,
	opts ...Option,
) *Runner {
	if log == nil {
		log = logger.NewNoOp()
	}
	r := &Runner{
		extractor: extractor,
		sheet:     sheet,
		cfg:       cfg.WithDefaults(),
		logger:    log.WithComponent("runner"),
		sleep:     sleepContext,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewMetrics()
	}
	return r
}

// Metrics returns the runner's metrics.
func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// Run reads the sheet and processes every product in order, pausing a random
// interval between products. A cancelled context stops the loop and returns
// the summary so far together with the context error.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	started := r.now()

	products, err := r.sheet.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	r.logger.Info("Starting run", "products", len(products), "sinks", len(r.writers))

	summary := &Summary{Results: make([]domain.ProductResult, 0, len(products))}
	var runErr error

	for i, product := range products {
		if i > 0 {
			if err = r.sleep(ctx, r.pauseDuration()); err != nil {
				runErr = err
				break
			}
		}
		if err = ctx.Err(); err != nil {
			runErr = err
			break
		}

		result := r.ProcessProduct(ctx, product)
		summary.add(result)
	}

	summary.Duration = r.now().Sub(started)
	r.logger.Info("Run finished",
		"processed", summary.Processed,
		"reviews", summary.Reviews,
		"failed", summary.Failed,
		"empty", summary.Empty,
		"duration", summary.Duration,
	)
	return summary, runErr
}

// ProcessProduct extracts one product, writes its records to every sink and
// updates its status.
func (r *Runner) ProcessProduct(ctx context.Context, product domain.Product) domain.ProductResult {
	start := r.now()
	r.metrics.SetCurrentProduct(product.Name)

	log := r.logger.With("product", product.Name, "row", product.Row).WithURL(product.URL)
	log.Info("Processing product")

	productCtx, cancel := context.WithTimeout(ctx, r.cfg.ProductTimeout)
	records := r.extractor.Extract(productCtx, product.URL)
	cancel()

	result := domain.ProductResult{
		Product:     product,
		Marketplace: marketplace.Classify(product.URL),
		Reviews:     len(records),
		Destination: r.cfg.OutputDir,
	}

	result.Err = r.write(ctx, product, records)
	result.Status = StatusFor(len(records), result.Err)
	r.updateStatus(ctx, log, product, result.Status)

	result.Duration = r.now().Sub(start)
	r.metrics.RecordProduct(result.Reviews, result.Duration, result.Err)

	if result.Err != nil {
		log.Error("Failed to store reviews", "error", result.Err)
	} else {
		log.WithDuration(result.Duration).Info("Product done", "reviews", result.Reviews)
	}
	return result
}

// write sends records to every writer concurrently and returns the first error.
func (r *Runner) write(ctx context.Context, product domain.Product, records []domain.ReviewRecord) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range r.writers {
		name := sinkName(w, "writer "+strconv.Itoa(i))
		g.Go(func() error {
			if err := w.Write(gctx, r.cfg.OutputDir, product, records); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) updateStatus(ctx context.Context, log logger.Interface, product domain.Product, status string) {
	for i, sink := range r.statuses {
		if err := sink.UpdateStatus(ctx, product, status); err != nil {
			log.Warn("Failed to update status",
				"sink", sinkName(sink, "status "+strconv.Itoa(i)),
				"error", err,
			)
		}
	}
}

// pauseDuration picks a pause uniformly in [PauseMin, PauseMax].
func (r *Runner) pauseDuration() time.Duration {
	lo, hi := r.cfg.PauseMin, r.cfg.PauseMax
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

// StatusFor returns the status string of a product with n reviews.
func StatusFor(n int, err error) string {
	switch {
	case err != nil:
		return statusErrorPrefix + err.Error()
	case n == 0:
		return StatusNoReviews
	default:
		return strconv.Itoa(n) + " reviews"
	}
}

func (s *Summary) add(result domain.ProductResult) {
	s.Results = append(s.Results, result)
	s.Processed++
	s.Reviews += result.Reviews
	switch {
	case result.Err != nil:
		s.Failed++
	case result.Reviews == 0:
		s.Empty++
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
