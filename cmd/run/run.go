// Package run implements the command that processes every product of the
// sheet and writes the results to the configured sinks.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/reviews/cmd/common"
	"github.com/jonesrussell/north-cloud/reviews/internal/database"
	"github.com/jonesrussell/north-cloud/reviews/internal/job"
	"github.com/jonesrussell/north-cloud/reviews/internal/metrics"
	"github.com/jonesrussell/north-cloud/reviews/internal/sheet"
)

// finishTimeout bounds the run-history update after the run context is gone.
const finishTimeout = 5 * time.Second

// Command returns the run command.
func Command() *cobra.Command {
	var (
		sheetPath string
		sinks     []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract the reviews of every product in the sheet",
		Long: `Read the product sheet, extract the reviews of each product in order,
write them to the configured sinks and update each product's status column.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer func() { _ = deps.Logger.Sync() }()

			if sheetPath != "" {
				deps.Config.Sheet.Path = sheetPath
			}
			if len(sinks) > 0 {
				deps.Config.Run.Sinks = sinks
				if validateErr := deps.Config.Validate(); validateErr != nil {
					return validateErr
				}
			}

			summary, m, err := Batch(cmd.Context(), deps)
			if summary != nil {
				RenderSummary(cmd.OutOrStdout(), summary, m.Snapshot())
			}
			return err
		},
	}

	cmd.Flags().StringVar(&sheetPath, "sheet", "", "Product sheet to read (overrides sheet.path)")
	cmd.Flags().StringSliceVar(&sinks, "sinks", nil, "Sinks to write to: json, elasticsearch, postgres (overrides run.sinks)")

	return cmd
}

// Batch performs one run over the sheet. It records the run in PostgreSQL
// when that sink is enabled.
func Batch(ctx context.Context, deps cmdcommon.CommandDeps) (*job.Summary, *metrics.Metrics, error) {
	cfg := deps.Config
	m := metrics.NewMetrics()

	csv := sheet.NewCSVSheet(cfg.Sheet, deps.Logger)
	sinks, err := cmdcommon.CreateSinks(ctx, deps, csv)
	if err != nil {
		return nil, m, err
	}
	defer func() {
		if closeErr := sinks.Close(); closeErr != nil {
			deps.Logger.Warn("Failed to close sinks", "error", closeErr)
		}
	}()

	var history *database.Run
	if sinks.Runs != nil {
		if history, err = sinks.Runs.Start(ctx); err != nil {
			deps.Logger.Warn("Failed to record run start", "error", err)
		}
	}

	runner := job.NewRunner(
		cmdcommon.NewEngine(deps, m),
		csv,
		cfg.Run,
		deps.Logger,
		job.WithWriters(sinks.Writers...),
		job.WithStatusSinks(sinks.Statuses...),
		job.WithMetrics(m),
	)

	summary, runErr := runner.Run(ctx)

	if history != nil && summary != nil {
		history.Products = summary.Processed
		history.Reviews = summary.Reviews
		history.Failed = summary.Failed
		history.Empty = summary.Empty

		finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
		if finishErr := sinks.Runs.Finish(finishCtx, history); finishErr != nil {
			deps.Logger.Warn("Failed to record run finish", "error", finishErr)
		}
		cancel()
	}

	if errors.Is(runErr, context.Canceled) {
		deps.Logger.Info("Run interrupted", "processed", m.GetProcessedCount())
	}
	return summary, m, runErr
}

// RenderSummary prints one row per product followed by the run totals.
func RenderSummary(w io.Writer, summary *job.Summary, snap metrics.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault

	t.AppendHeader(table.Row{"Row", "Product", "Marketplace", "Reviews", "Status", "Duration"})
	for _, r := range summary.Results {
		t.AppendRow(table.Row{
			r.Product.Row,
			r.Product.Name,
			r.Marketplace.String(),
			r.Reviews,
			r.Status,
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	t.AppendFooter(table.Row{
		"",
		"Processed " + strconv.Itoa(summary.Processed),
		"Failed " + strconv.Itoa(summary.Failed),
		summary.Reviews,
		"Empty " + strconv.Itoa(summary.Empty),
		summary.Duration.Round(time.Millisecond).String(),
	})
	t.Render()

	stats := table.NewWriter()
	stats.SetOutputMirror(w)
	stats.SetStyle(table.StyleLight)
	stats.AppendHeader(table.Row{"Metric", "Value"})
	stats.AppendRows([]table.Row{
		{"Static fetch hits", snap.StaticHits},
		{"Browser runs", snap.BrowserRuns},
		{"Extraction time", snap.Duration.Round(time.Millisecond).String()},
		{"Elapsed", snap.Elapsed.Round(time.Millisecond).String()},
	})
	stats.Render()
}
