package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrClientNotInitialized is returned when Storage has no client.
	ErrClientNotInitialized = errors.New("elasticsearch client is not initialized")
	// ErrInvalidCount indicates the count response could not be decoded.
	ErrInvalidCount = errors.New("invalid count response format")
)

// ResponseError is an error status returned by Elasticsearch.
type ResponseError struct {
	Op     string
	Index  string
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	if e.Index == "" {
		return fmt.Sprintf("elasticsearch %s: status %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("elasticsearch %s %s: status %d: %s", e.Op, e.Index, e.Status, e.Body)
}
