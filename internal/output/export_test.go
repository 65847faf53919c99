package output

import "time"

// SetClock replaces the writer's clock.
func (w *JSONWriter) SetClock(now func() time.Time) {
	w.now = now
}
