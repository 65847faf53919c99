package logger

import "errors"

var (
	ErrInvalidLevel    = errors.New("invalid logging level")
	ErrInvalidEncoding = errors.New("invalid log encoding format")
	ErrInvalidFields   = errors.New("invalid fields: must be key-value pairs")
)
