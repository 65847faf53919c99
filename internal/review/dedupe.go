package review

import (
	"strings"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
)

// Dedupe keeps the first record per content key and preserves order. The key
// is the first prefixLen characters of the lowercased, whitespace-collapsed
// content, so distinct short reviews that open with the same words collide.
func Dedupe(records []domain.ReviewRecord, prefixLen int) []domain.ReviewRecord {
	if len(records) == 0 {
		return records
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]domain.ReviewRecord, 0, len(records))
	for _, record := range records {
		key := DedupKey(record.Content, prefixLen)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, record)
	}
	return out
}

// DedupKey normalizes content into its deduplication key.
func DedupKey(content string, prefixLen int) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(content), " "))
	if prefixLen <= 0 {
		return normalized
	}
	runes := []rune(normalized)
	if len(runes) > prefixLen {
		runes = runes[:prefixLen]
	}
	return string(runes)
}
