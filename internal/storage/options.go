package storage

import "time"

const (
	DefaultIndexTimeout  = 10 * time.Second
	DefaultPingTimeout   = 5 * time.Second
	DefaultSearchTimeout = 10 * time.Second
)

// Options holds timeouts used by Storage.
type Options struct {
	IndexTimeout  time.Duration
	SearchTimeout time.Duration
	// Refresh makes each indexed document searchable before IndexDocument returns.
	Refresh bool
}

// DefaultOptions returns default options for Storage.
func DefaultOptions() Options {
	return Options{
		IndexTimeout:  DefaultIndexTimeout,
		SearchTimeout: DefaultSearchTimeout,
	}
}
