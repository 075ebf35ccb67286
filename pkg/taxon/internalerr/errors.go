package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidLabel     = errors.New("illegal argument")
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrEmptyResponse    = errors.New("empty response")
)
