package database

import "time"

// SetClock replaces the repository clock.
func (r *ReviewRepository) SetClock(now func() time.Time) {
	r.now = now
}

// SetClock replaces the repository clock.
func (r *RunRepository) SetClock(now func() time.Time) {
	r.now = now
}

// ProductKey exposes productKey for tests.
var ProductKey = productKey
