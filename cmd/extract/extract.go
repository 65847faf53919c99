// Package extract implements the command that extracts the reviews of a
// single product URL.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/reviews/cmd/common"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
	"github.com/jonesrussell/north-cloud/reviews/internal/metrics"
	"github.com/jonesrussell/north-cloud/reviews/internal/output"
)

const (
	// DefaultContentPreviewLength is the number of characters shown per review
	DefaultContentPreviewLength = 120
	// DefaultTableWidth is the default width of the results table
	DefaultTableWidth = 160
)

// ErrNoURL is returned when the command runs without a URL argument.
var ErrNoURL = errors.New("product url is required")

// Command returns the extract command.
func Command() *cobra.Command {
	var (
		asJSON  bool
		saveDir string
		name    string
	)

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract the reviews of one product page",
		Long: `Extract the reviews of one product page and print them as a table.
Use --json for machine-readable output and --save to also write the
product's JSON document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return ErrNoURL
			}
			productURL := strings.TrimSpace(args[0])

			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer func() { _ = deps.Logger.Sync() }()

			m := metrics.NewMetrics()
			start := time.Now()
			records := cmdcommon.NewEngine(deps, m).Extract(cmd.Context(), productURL)

			if saveDir != "" {
				product := domain.Product{Name: productName(name, productURL), URL: productURL}
				writer := output.NewJSONWriter(saveDir, deps.Logger)
				if writeErr := writer.Write(cmd.Context(), "", product, records); writeErr != nil {
					return fmt.Errorf("failed to save reviews: %w", writeErr)
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, records)
			}
			renderRecords(out, records, marketplace.Classify(productURL), time.Since(start))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the records as JSON")
	cmd.Flags().StringVarP(&saveDir, "save", "s", "", "Directory to write the product's JSON document to")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Product name used for the saved file (default: derived from the URL)")

	return cmd
}

func writeJSON(w io.Writer, records []domain.ReviewRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// renderRecords formats the records as a table.
func renderRecords(w io.Writer, records []domain.ReviewRecord, market domain.Marketplace, elapsed time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = true
	t.Style().Format.Footer = text.FormatDefault

	const (
		indexColumnNumber   = 1
		indexColumnWidth    = 4
		ratingColumnNumber  = 2
		titleColumnNumber   = 3
		titleColumnWidth    = 30
		contentColumnNumber = 5
	)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: indexColumnNumber, WidthMax: indexColumnWidth},
		{Number: ratingColumnNumber, Align: text.AlignRight},
		{Number: titleColumnNumber, WidthMax: titleColumnWidth},
		{Number: contentColumnNumber, WidthMax: DefaultTableWidth / 2},
	})

	t.AppendHeader(table.Row{"#", "Rating", "Title", "Author", "Review"})
	for i, rec := range records {
		t.AppendRow(table.Row{
			i + 1,
			formatRating(rec.Rating),
			orNA(rec.Title),
			orNA(rec.Author),
			truncateString(strings.Join(strings.Fields(rec.Content), " "), DefaultContentPreviewLength),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Marketplace", market.String()})
	t.AppendFooter(table.Row{"", "", "", "Reviews", strconv.Itoa(len(records))})
	t.AppendFooter(table.Row{"", "", "", "Elapsed", elapsed.Round(time.Millisecond).String()})
	t.Render()
}

func formatRating(rating *float64) string {
	if rating == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*rating, 'f', 1, 64)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// truncateString shortens s to maxLen characters, adding an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// productName falls back to the last path segment of the URL.
func productName(name, productURL string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	trimmed := strings.TrimRight(productURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 && i < len(trimmed)-1 {
		trimmed = trimmed[i+1:]
	}
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}
