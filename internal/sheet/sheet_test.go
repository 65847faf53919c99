package sheet_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sheetcfg "github.com/jonesrussell/north-cloud/reviews/internal/config/sheet"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/sheet"
)

const productsCSV = "PRODUCTO,URL,ARCHIVOJSON\n" +
	"Licuadora,https://articulo.mercadolibre.com.ar/MLA-1,\n" +
	"Sin enlace,,\n" +
	"Tetera,https://www.amazon.com/dp/B0ABC/ref=sr_1_1,\n" +
	"Licuadora repetida,https://articulo.mercadolibre.com.ar/MLA-1?tracking_id=x,\n"

func writeSheet(t *testing.T, content string) sheetcfg.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	cfg := sheetcfg.NewConfig()
	cfg.Path = path
	return cfg
}

func TestCSVSheet_Read(t *testing.T) {
	t.Parallel()

	s := sheet.NewCSVSheet(writeSheet(t, productsCSV), logger.NewNoOp())

	products, err := s.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, domain.Product{
		Row:  2,
		Name: "Licuadora",
		URL:  "https://articulo.mercadolibre.com.ar/MLA-1",
	}, products[0])
	assert.Equal(t, 4, products[1].Row)
	assert.Equal(t, "Tetera", products[1].Name)
}

func TestCSVSheet_ReadCaseInsensitiveHeaders(t *testing.T) {
	t.Parallel()

	s := sheet.NewCSVSheet(writeSheet(t, "\ufeffproducto, url\nTaza, https://shop.example.com/taza\n"), nil)

	products, err := s.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "https://shop.example.com/taza", products[0].URL)
	assert.Empty(t, products[0].Status)
}

func TestCSVSheet_MissingColumn(t *testing.T) {
	t.Parallel()

	s := sheet.NewCSVSheet(writeSheet(t, "PRODUCTO,LINK\nTaza,https://x\n"), nil)

	_, err := s.Read(context.Background())
	require.ErrorIs(t, err, sheet.ErrMissingColumn)
}

func TestCSVSheet_EmptyFile(t *testing.T) {
	t.Parallel()

	s := sheet.NewCSVSheet(writeSheet(t, ""), nil)

	_, err := s.Read(context.Background())
	require.ErrorIs(t, err, sheet.ErrEmptySheet)
}

func TestCSVSheet_UpdateStatus(t *testing.T) {
	t.Parallel()

	cfg := writeSheet(t, productsCSV)
	s := sheet.NewCSVSheet(cfg, nil)

	products, err := s.Read(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatus(context.Background(), products[0], "3 reviews"))
	require.NoError(t, s.UpdateStatus(context.Background(), products[1], "no reviews found"))

	reread, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3 reviews", reread[0].Status)
	assert.Equal(t, "no reviews found", reread[1].Status)
}

func TestCSVSheet_UpdateStatusKeepsFileMode(t *testing.T) {
	t.Parallel()

	const sharedMode = os.FileMode(0o664)

	cfg := writeSheet(t, productsCSV)
	require.NoError(t, os.Chmod(cfg.Path, sharedMode))
	s := sheet.NewCSVSheet(cfg, nil)

	products, err := s.Read(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(context.Background(), products[0], "2 reviews"))

	info, err := os.Stat(cfg.Path)
	require.NoError(t, err)
	assert.Equal(t, sharedMode, info.Mode().Perm())
}

func TestCSVSheet_UpdateStatusAddsColumn(t *testing.T) {
	t.Parallel()

	cfg := writeSheet(t, "PRODUCTO,URL\nTaza,https://shop.example.com/taza\n")
	s := sheet.NewCSVSheet(cfg, nil)

	require.NoError(t, s.UpdateStatus(context.Background(), domain.Product{Row: 2}, "1 reviews"))

	data, err := os.ReadFile(cfg.Path)
	require.NoError(t, err)
	assert.Equal(t, "PRODUCTO,URL,ARCHIVOJSON\nTaza,https://shop.example.com/taza,1 reviews\n", string(data))
}

func TestCSVSheet_UpdateStatusOutOfRange(t *testing.T) {
	t.Parallel()

	s := sheet.NewCSVSheet(writeSheet(t, productsCSV), nil)

	err := s.UpdateStatus(context.Background(), domain.Product{Row: 99}, "x")
	require.ErrorIs(t, err, sheet.ErrRowOutOfRange)
}

func TestCSVSheet_UpdateStatusDisabled(t *testing.T) {
	t.Parallel()

	cfg := writeSheet(t, productsCSV)
	cfg.WriteStatus = false
	s := sheet.NewCSVSheet(cfg, nil)

	require.NoError(t, s.UpdateStatus(context.Background(), domain.Product{Row: 99}, "x"))

	data, err := os.ReadFile(cfg.Path)
	require.NoError(t, err)
	assert.Equal(t, productsCSV, string(data))
}
