package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidClusterCount = errors.New("invalid cluster count")
	ErrEmptyQuery          = errors.New("empty query")
	ErrTooFewEntries       = errors.New("too few entries")
	ErrDecrypt             = errors.New("decrypt failed")
)
