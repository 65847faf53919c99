package metrics_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/reviews/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	m := metrics.NewMetrics()
	assert.NotNil(t, m)
	assert.False(t, m.GetStartTime().IsZero())
}

func TestRecordProduct(t *testing.T) {
	m := metrics.NewMetrics()

	m.RecordProduct(3, time.Second, nil)
	assert.Equal(t, int64(1), m.GetProcessedCount())
	assert.Equal(t, int64(3), m.GetReviewCount())
	assert.False(t, m.GetLastProcessedTime().IsZero())

	m.RecordProduct(0, time.Second, nil)
	m.RecordProduct(0, time.Second, errors.New("timeout"))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Processed)
	assert.Equal(t, int64(1), snap.Errors)
	assert.Equal(t, int64(1), snap.Empty)
	assert.Equal(t, int64(3), snap.Reviews)
	assert.Equal(t, 3*time.Second, snap.Duration)
}

func TestResetMetrics(t *testing.T) {
	m := metrics.NewMetrics()
	m.RecordProduct(2, time.Second, nil)
	m.IncrementStaticHits()
	m.SetCurrentProduct("Licuadora")

	m.ResetMetrics()

	snap := m.Snapshot()
	assert.Zero(t, snap.Processed)
	assert.Zero(t, snap.Reviews)
	assert.Zero(t, snap.StaticHits)
	assert.True(t, m.GetLastProcessedTime().IsZero())
	assert.Empty(t, m.GetCurrentProduct())
}

func TestCurrentProduct(t *testing.T) {
	m := metrics.NewMetrics()
	assert.Empty(t, m.GetCurrentProduct())

	m.SetCurrentProduct("Licuadora")
	assert.Equal(t, "Licuadora", m.GetCurrentProduct())
}

func TestPathCounters(t *testing.T) {
	m := metrics.NewMetrics()

	m.IncrementStaticHits()
	m.IncrementBrowserRuns()
	m.IncrementBrowserRuns()

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.StaticHits)
	assert.Equal(t, int64(2), snap.BrowserRuns)
}

func TestRecordProductConcurrently(t *testing.T) {
	m := metrics.NewMetrics()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordProduct(1, time.Millisecond, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), m.GetProcessedCount())
	assert.Equal(t, int64(10), m.GetReviewCount())
}
