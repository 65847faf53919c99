package output_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/output"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "spaces", input: "Licuadora Oster 600W", expected: "Licuadora_Oster_600W"},
		{name: "invalid characters", input: `a<b>c:d"e/f\g|h?i*j`, expected: "abcdefghij"},
		{name: "trims", input: "  Taza  ", expected: "Taza"},
		{name: "unicode kept", input: "Cafetera Eléctrica", expected: "Cafetera_Eléctrica"},
		{name: "empty", input: "", expected: "product"},
		{name: "only invalid", input: "???", expected: "product"},
		{name: "truncated", input: strings.Repeat("ñ", 150), expected: strings.Repeat("ñ", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, output.SanitizeFilename(tt.input))
		})
	}
}

func TestJSONWriter_Write(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := output.NewJSONWriter(dir, logger.NewNoOp())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w.SetClock(func() time.Time { return fixed })

	product := domain.Product{Row: 2, Name: "Licuadora Oster", URL: "https://articulo.mercadolibre.com.ar/MLA-1"}
	records := []domain.ReviewRecord{
		{Content: "Muy buena", Rating: domain.RatingPtr(5), Marketplace: domain.MarketplaceMercadoLibre},
		{Content: "Regular", Marketplace: domain.MarketplaceMercadoLibre},
	}

	require.NoError(t, w.Write(context.Background(), "", product, records))

	data, err := os.ReadFile(filepath.Join(dir, "Licuadora_Oster.json"))
	require.NoError(t, err)

	var doc output.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Licuadora Oster", doc.Product)
	assert.Equal(t, product.URL, doc.URL)
	assert.Equal(t, 2, doc.TotalReviews)
	assert.True(t, fixed.Equal(doc.ExtractedAt))
	require.Len(t, doc.Reviews, 2)
	assert.Nil(t, doc.Reviews[1].Rating)
	assert.Contains(t, string(data), `"rating": null`)
}

func TestJSONWriter_EmptyRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := output.NewJSONWriter("", nil)

	require.NoError(t, w.Write(context.Background(), dir, domain.Product{Name: "Taza"}, nil))

	data, err := os.ReadFile(filepath.Join(dir, "Taza.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"reviews": []`)
	assert.Contains(t, string(data), `"total_reviews": 0`)
}

func TestJSONWriter_NoDestination(t *testing.T) {
	t.Parallel()

	w := output.NewJSONWriter("", nil)
	err := w.Write(context.Background(), "", domain.Product{Name: "Taza"}, nil)
	require.ErrorIs(t, err, output.ErrNoDestination)
}

func TestJSONWriter_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := output.NewJSONWriter(t.TempDir(), nil)
	require.ErrorIs(t, w.Write(ctx, "", domain.Product{Name: "Taza"}, nil), context.Canceled)
}
