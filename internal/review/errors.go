package review

import (
	"errors"
	"fmt"
)

// ErrFieldNotFound is wrapped by every ExtractionWarning.
var ErrFieldNotFound = errors.New("field not found")

// Field names reported in warnings.
const (
	FieldContent = "content"
	FieldRating  = "rating"
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldDate    = "date"
)

// ExtractionWarning reports a field that could not be read from a card. The
// field degrades to its empty value; the card is still emitted.
type ExtractionWarning struct {
	Field  string
	Reason string
}

func (w ExtractionWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Reason)
}

func (w ExtractionWarning) Unwrap() error {
	return ErrFieldNotFound
}
