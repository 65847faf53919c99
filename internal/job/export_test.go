package job

import "time"

// Trigger fires the scheduled run once.
func (s *Scheduler) Trigger() {
	s.trigger()
}

// SetClock replaces the runner clock.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}

// PauseDuration exposes pauseDuration for tests.
func (r *Runner) PauseDuration() time.Duration {
	return r.pauseDuration()
}
