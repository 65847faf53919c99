package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
)

// ErrInvalidSchedule is returned for cron expressions that do not parse.
var ErrInvalidSchedule = errors.New("invalid schedule")

// RunFunc is one scheduled batch run.
type RunFunc func(ctx context.Context) error

// Scheduler triggers a RunFunc on a cron schedule. A trigger that fires while
// the previous run is still going is skipped.
type Scheduler struct {
	logger  logger.Interface
	cron    *cron.Cron
	spec    string
	run     RunFunc
	running atomic.Bool
	entryID cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler for a standard five-field cron expression
// or a descriptor such as "@daily".
func NewScheduler(spec string, run RunFunc, log logger.Interface) (*Scheduler, error) {
	if log == nil {
		log = logger.NewNoOp()
	}
	cronParser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := cronParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger: log.WithComponent("scheduler"),
		cron:   cron.New(cron.WithParser(cronParser), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		spec:   spec,
		run:    run,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start registers the schedule and starts the cron loop. With runOnStart a
// first run begins immediately.
func (s *Scheduler) Start(runOnStart bool) error {
	entryID, err := s.cron.AddFunc(s.spec, s.trigger)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, s.spec, err)
	}
	s.entryID = entryID
	s.cron.Start()

	s.logger.Info("Scheduler started", "schedule", s.spec, "next_run", s.Next())

	if runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.trigger()
		}()
	}
	return nil
}

// Stop stops the cron loop, cancels a run in progress and waits for it.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")

	s.cancel()
	cronCtx := s.cron.Stop()
	<-cronCtx.Done()
	s.wg.Wait()

	s.logger.Info("Scheduler stopped")
}

// Next returns the time of the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) trigger() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("Previous run still in progress, skipping")
		return
	}
	defer s.running.Store(false)

	if s.ctx.Err() != nil {
		return
	}

	start := time.Now()
	s.logger.Info("Scheduled run starting")
	if err := s.run(s.ctx); err != nil {
		s.logger.WithDuration(time.Since(start)).Error("Scheduled run failed", "error", err)
		return
	}
	s.logger.WithDuration(time.Since(start)).Info("Scheduled run finished", "next_run", s.Next())
}
