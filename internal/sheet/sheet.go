// Package sheet reads the product list from a CSV sheet and writes each
// product's outcome back into its status column.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"

	sheetcfg "github.com/jonesrussell/north-cloud/reviews/internal/config/sheet"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/frontier"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
)

// firstDataRow is the 1-based row number of the first product; row 1 is the header.
const firstDataRow = 2

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptySheet is returned when the file has no header row.
	ErrEmptySheet = errors.New("empty sheet")
	// ErrRowOutOfRange is returned when a status targets a row the sheet does not have.
	ErrRowOutOfRange = errors.New("row out of range")
)

// CSVSheet is a product sheet stored as a CSV file.
type CSVSheet struct {
	cfg    sheetcfg.Config
	logger logger.Interface
	mu     sync.Mutex
}

// NewCSVSheet creates a sheet backed by cfg.Path.
func NewCSVSheet(cfg sheetcfg.Config, log logger.Interface) *CSVSheet {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &CSVSheet{
		cfg:    cfg.WithDefaults(),
		logger: log.WithComponent("sheet"),
	}
}

// Read returns the sheet's products in row order. Rows without a URL and
// rows whose normalized URL repeats an earlier row are skipped with a warning.
func (s *CSVSheet) Read(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", s.cfg.Path, ErrEmptySheet)
	}

	cols := indexColumns(rows[0])
	nameIdx, ok := cols[normalizeHeader(s.cfg.NameColumn)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, s.cfg.NameColumn)
	}
	urlIdx, ok := cols[normalizeHeader(s.cfg.URLColumn)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, s.cfg.URLColumn)
	}
	statusIdx, hasStatus := cols[normalizeHeader(s.cfg.StatusColumn)]

	products := make([]domain.Product, 0, len(rows)-1)
	seen := make(map[string]int)

	for i, record := range rows[1:] {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		rowNum := i + firstDataRow
		fields := map[string]any{
			"row":  rowNum,
			"name": cell(record, nameIdx),
			"url":  cell(record, urlIdx),
		}
		if hasStatus {
			fields["status"] = cell(record, statusIdx)
		}

		var product domain.Product
		if err = mapstructure.Decode(fields, &product); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", rowNum, err)
		}

		if product.URL == "" {
			s.logger.Warn("Skipping row without URL", "row", rowNum, "product", product.Name)
			continue
		}

		key := dedupKey(product.URL)
		if first, dup := seen[key]; dup {
			s.logger.Warn("Skipping duplicate product URL",
				"row", rowNum,
				"first_row", first,
				"url", product.URL,
			)
			continue
		}
		seen[key] = rowNum

		products = append(products, product)
	}

	s.logger.Info("Read product sheet", "path", s.cfg.Path, "products", len(products))
	return products, nil
}

// UpdateStatus writes status into the product's row. The status column is
// appended to the header when the sheet does not have one yet. It is a no-op
// when status write-back is disabled.
func (s *CSVSheet) UpdateStatus(ctx context.Context, product domain.Product, status string) error {
	if !s.cfg.WriteStatus {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s: %w", s.cfg.Path, ErrEmptySheet)
	}

	idx := product.Row - 1
	if product.Row < firstDataRow || idx >= len(rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, product.Row)
	}

	cols := indexColumns(rows[0])
	statusIdx, ok := cols[normalizeHeader(s.cfg.StatusColumn)]
	if !ok {
		statusIdx = len(rows[0])
		rows[0] = append(rows[0], s.cfg.StatusColumn)
	}

	row := rows[idx]
	for len(row) <= statusIdx {
		row = append(row, "")
	}
	row[statusIdx] = status
	rows[idx] = row

	return s.save(rows)
}

func (s *CSVSheet) load() ([][]string, error) {
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, readErr := r.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read sheet: %w", readErr)
		}
		rows = append(rows, record)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// save writes rows to a temporary file next to the sheet and renames it
// over the original, keeping the original's permissions.
func (s *CSVSheet) save(rows [][]string) error {
	info, err := os.Stat(s.cfg.Path)
	if err != nil {
		return fmt.Errorf("stat sheet: %w", err)
	}

	dir := filepath.Dir(s.cfg.Path)
	tmp, err := os.CreateTemp(dir, ".sheet-*.csv")
	if err != nil {
		return fmt.Errorf("create temp sheet: %w", err)
	}
	tmpName := tmp.Name()

	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp sheet: %w", err)
	}

	w := csv.NewWriter(tmp)
	if err = w.WriteAll(rows); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write sheet: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp sheet: %w", err)
	}
	if err = os.Rename(tmpName, s.cfg.Path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace sheet: %w", err)
	}
	return nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}
	return cols
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func dedupKey(rawURL string) string {
	normalized, err := frontier.NormalizeURL(rawURL)
	if err != nil {
		return rawURL
	}
	return normalized
}
