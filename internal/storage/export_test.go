package storage

import "time"

// SanitizeIndexName exposes sanitizeIndexName for tests.
func SanitizeIndexName(name string) string {
	return sanitizeIndexName(name)
}

// SetClock replaces the indexer's clock.
func (r *ReviewIndexer) SetClock(now func() time.Time) {
	r.now = now
}
