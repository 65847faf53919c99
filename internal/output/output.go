// Package output writes extracted reviews as one JSON document per product.
package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
)

const (
	// maxFilenameLength bounds the sanitized product name, in characters.
	maxFilenameLength = 100
	fileExtension     = ".json"
	dirPerm           = 0o755
	filePerm          = 0o644
	defaultFilename   = "product"
)

// ErrNoDestination is returned when neither the call nor the writer names an output directory.
var ErrNoDestination = errors.New("no output directory")

// Document is the JSON file written for one product.
type Document struct {
	Product      string                `json:"product"`
	URL          string                `json:"url"`
	ExtractedAt  time.Time             `json:"extracted_at"`
	TotalReviews int                   `json:"total_reviews"`
	Reviews      []domain.ReviewRecord `json:"reviews"`
}

// JSONWriter writes Documents under a directory.
type JSONWriter struct {
	dir    string
	logger logger.Interface
	now    func() time.Time
}

// NewJSONWriter creates a writer whose default directory is dir.
func NewJSONWriter(dir string, log logger.Interface) *JSONWriter {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &JSONWriter{
		dir:    dir,
		logger: log.WithComponent("json_writer"),
		now:    time.Now,
	}
}

// Name identifies the sink in run summaries.
func (w *JSONWriter) Name() string {
	return "json"
}

// Write stores records as <destination>/<sanitized product name>.json. An
// empty destination falls back to the writer's directory.
func (w *JSONWriter) Write(
	ctx context.Context,
	destination string,
	product domain.Product,
	records []domain.ReviewRecord,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := destination
	if dir == "" {
		dir = w.dir
	}
	if dir == "" {
		return ErrNoDestination
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if records == nil {
		records = []domain.ReviewRecord{}
	}
	doc := Document{
		Product:      product.Name,
		URL:          product.URL,
		ExtractedAt:  w.now().UTC(),
		TotalReviews: len(records),
		Reviews:      records,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	path := filepath.Join(dir, Filename(product.Name))
	if err = os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w.logger.Debug("Wrote reviews file", "path", path, "reviews", len(records))
	return nil
}

// Filename returns the file name used for a product.
func Filename(productName string) string {
	return SanitizeFilename(productName) + fileExtension
}

// SanitizeFilename strips characters that are invalid in file names,
// replaces spaces with underscores and truncates to 100 characters.
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		case ' ':
			return '_'
		}
		if r < ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(name))

	if runes := []rune(cleaned); len(runes) > maxFilenameLength {
		cleaned = string(runes[:maxFilenameLength])
	}
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return defaultFilename
	}
	return cleaned
}
