// Package schedule implements the command that repeats the batch run on a
// cron schedule until the process is interrupted.
package schedule

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/reviews/cmd/common"
	cmdrun "github.com/jonesrussell/north-cloud/reviews/cmd/run"
	"github.com/jonesrussell/north-cloud/reviews/internal/job"
)

// Command returns the schedule command.
func Command() *cobra.Command {
	var (
		cronSpec   string
		runOnStart bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the batch on a cron schedule",
		Long: `Run the batch over the product sheet on a cron schedule
(schedule.cron, default "0 3 * * *") until interrupted. A run that is still
going when the next one is due makes the scheduler skip that trigger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer func() { _ = deps.Logger.Sync() }()

			spec := deps.Config.Schedule.Cron
			if cronSpec != "" {
				spec = cronSpec
			}
			onStart := deps.Config.Schedule.RunOnStart || runOnStart

			runOnce := func(ctx context.Context) error {
				summary, m, runErr := cmdrun.Batch(ctx, deps)
				if summary != nil {
					cmdrun.RenderSummary(cmd.OutOrStdout(), summary, m.Snapshot())
				}
				return runErr
			}

			scheduler, err := job.NewScheduler(spec, runOnce, deps.Logger)
			if err != nil {
				return err
			}
			if err = scheduler.Start(onStart); err != nil {
				return err
			}

			<-cmd.Context().Done()
			deps.Logger.Info("Shutdown signal received")
			scheduler.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "Cron expression (overrides schedule.cron)")
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run once immediately on start")

	return cmd
}
