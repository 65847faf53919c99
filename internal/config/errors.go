package config

import (
	"errors"
	"fmt"
)

// Common configuration errors
var (
	// ErrConfigInvalid is returned when the configuration is invalid
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigLoadFailed is returned when loading the configuration fails
	ErrConfigLoadFailed = errors.New("failed to load configuration")
)

// ValidationError represents an error in configuration validation
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: field %q with value %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// LoadError represents an error loading configuration
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load config from %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ViperError represents an error from Viper configuration
type ViperError struct {
	Operation string
	Err       error
}

func (e *ViperError) Error() string {
	return fmt.Sprintf("viper error during %s: %v", e.Operation, e.Err)
}

func (e *ViperError) Unwrap() error {
	return e.Err
}
