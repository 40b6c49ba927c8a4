package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrMissingDSN    = errors.New("postgres dsn is required")
	ErrClosed        = errors.New("store closed")
)
