package review

// Exported for testing.
var (
	RatingFromLabel = ratingFromLabel
	RatingFromText  = ratingFromText
	RatingFromIcons = ratingFromIcons
	LocateByRating  = locateByRating
	TruncateRunes   = truncateRunes
)
