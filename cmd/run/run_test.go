package run_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	cmdrun "github.com/jonesrussell/north-cloud/reviews/cmd/run"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/job"
	"github.com/jonesrussell/north-cloud/reviews/internal/metrics"
)

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	summary := &job.Summary{
		Results: []domain.ProductResult{
			{
				Product:     domain.Product{Row: 2, Name: "Licuadora"},
				Marketplace: domain.MarketplaceMercadoLibre,
				Reviews:     12,
				Status:      "12 reviews",
				Duration:    4 * time.Second,
			},
			{
				Product:     domain.Product{Row: 3, Name: "Tetera"},
				Marketplace: domain.MarketplaceAmazon,
				Status:      "error: json: disk full",
				Err:         errors.New("json: disk full"),
			},
		},
		Processed: 2,
		Reviews:   12,
		Failed:    1,
		Duration:  6 * time.Second,
	}

	var buf bytes.Buffer
	cmdrun.RenderSummary(&buf, summary, metrics.Snapshot{StaticHits: 1, BrowserRuns: 1})
	out := buf.String()

	assert.Contains(t, out, "Licuadora")
	assert.Contains(t, out, "mercadolibre")
	assert.Contains(t, out, "12 reviews")
	assert.Contains(t, out, "error: json: disk full")
	assert.Contains(t, out, "Processed 2")
	assert.Contains(t, out, "Failed 1")
	assert.Contains(t, out, "Static fetch hits")
}
