package navigator

import (
	"context"
	"fmt"
	"regexp"
)

// Session is one isolated browser page. Implementations need not be safe for
// concurrent use; the navigator drives a session from a single goroutine.
type Session interface {
	Navigate(ctx context.Context, pageURL string) error
	CurrentURL(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	ScrollToBottom(ctx context.Context) error
	ScrollHeight(ctx context.Context) (int, error)
	ClickMatching(ctx context.Context, pattern *regexp.Regexp) (bool, error)
	Close() error
}

// SessionFactory opens a fresh session for one navigation.
type SessionFactory func(ctx context.Context) (Session, error)

// NavigationError reports a failure to open a session or load the first page.
type NavigationError struct {
	Op  string
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
