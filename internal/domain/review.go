package domain

import "strings"

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// ReviewRecord is one customer review extracted from a product page.
type ReviewRecord struct {
	// Content is the review body. Never empty for an emitted record.
	Content string `json:"content" mapstructure:"content"`
	// Rating is nil when the score could not be derived from the page.
	Rating *float64 `json:"rating" mapstructure:"rating"`
	// Title is the optional review heading.
	Title string `json:"title" mapstructure:"title"`
	// Author is the optional reviewer name.
	Author string `json:"author" mapstructure:"author"`
	// Date is the review date exactly as rendered by the site.
	Date string `json:"date" mapstructure:"date"`
	// Marketplace is the classifier branch that produced the record.
	Marketplace Marketplace `json:"marketplace" mapstructure:"marketplace"`
}

// HasRating reports whether the record carries a rating.
func (r ReviewRecord) HasRating() bool {
	return r.Rating != nil
}

// IsValid reports whether the record may be emitted.
func (r ReviewRecord) IsValid() bool {
	if strings.TrimSpace(r.Content) == "" {
		return false
	}
	if r.Rating != nil && (*r.Rating < MinRating || *r.Rating > MaxRating) {
		return false
	}
	return true
}

// ClampRating bounds a rating to [MinRating, MaxRating].
func ClampRating(v float64) float64 {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}

// RatingPtr returns a pointer to a clamped copy of v.
func RatingPtr(v float64) *float64 {
	clamped := ClampRating(v)
	return &clamped
}
