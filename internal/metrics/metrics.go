// Package metrics provides metrics collection and reporting functionality.
package metrics

import (
	"sync"
	"time"
)

// Metrics holds the extraction metrics of one run.
type Metrics struct {
	// ProcessedCount is the number of products processed.
	ProcessedCount int64
	// ErrorCount is the number of products that failed.
	ErrorCount int64
	// EmptyCount is the number of products that yielded no reviews.
	EmptyCount int64
	// ReviewCount is the number of reviews extracted.
	ReviewCount int64
	// StaticHits is the number of products served by the static pre-pass.
	StaticHits int64
	// BrowserRuns is the number of products that needed the browser.
	BrowserRuns int64
	// LastProcessedTime is the time of the last successful product.
	LastProcessedTime time.Time
	// ProcessingDuration is the total time spent extracting.
	ProcessingDuration time.Duration
	// StartTime is when the metrics collection began.
	StartTime time.Time
	// CurrentProduct is the product being processed.
	CurrentProduct string
	// mu protects concurrent access to metrics.
	mu sync.Mutex
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Processed   int64
	Errors      int64
	Empty       int64
	Reviews     int64
	StaticHits  int64
	BrowserRuns int64
	Duration    time.Duration
	Elapsed     time.Duration
}

// NewMetrics creates a new Metrics instance with default values.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// GetStartTime returns the time when metrics collection began.
func (m *Metrics) GetStartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StartTime
}

// RecordProduct records the outcome of one product.
func (m *Metrics) RecordProduct(reviews int, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProcessedCount++
	m.ProcessingDuration += duration
	switch {
	case err != nil:
		m.ErrorCount++
	case reviews == 0:
		m.EmptyCount++
	default:
		m.ReviewCount += int64(reviews)
		m.LastProcessedTime = time.Now()
	}
}

// IncrementStaticHits counts a product served without the browser.
func (m *Metrics) IncrementStaticHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaticHits++
}

// IncrementBrowserRuns counts a product that launched the browser.
func (m *Metrics) IncrementBrowserRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BrowserRuns++
}

// GetProcessedCount returns the number of products processed.
func (m *Metrics) GetProcessedCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ProcessedCount
}

// GetErrorCount returns the number of failed products.
func (m *Metrics) GetErrorCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ErrorCount
}

// GetReviewCount returns the number of reviews extracted.
func (m *Metrics) GetReviewCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReviewCount
}

// GetLastProcessedTime returns the time of the last successful product.
func (m *Metrics) GetLastProcessedTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastProcessedTime
}

// SetCurrentProduct sets the product being processed.
func (m *Metrics) SetCurrentProduct(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentProduct = name
}

// GetCurrentProduct returns the product being processed.
func (m *Metrics) GetCurrentProduct() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentProduct
}

// Snapshot returns a copy of the counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Processed:   m.ProcessedCount,
		Errors:      m.ErrorCount,
		Empty:       m.EmptyCount,
		Reviews:     m.ReviewCount,
		StaticHits:  m.StaticHits,
		BrowserRuns: m.BrowserRuns,
		Duration:    m.ProcessingDuration,
		Elapsed:     time.Since(m.StartTime),
	}
}

// ResetMetrics resets all metrics to their initial values.
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProcessedCount = 0
	m.ErrorCount = 0
	m.EmptyCount = 0
	m.ReviewCount = 0
	m.StaticHits = 0
	m.BrowserRuns = 0
	m.LastProcessedTime = time.Time{}
	m.ProcessingDuration = 0
	m.CurrentProduct = ""
	m.StartTime = time.Now()
}
