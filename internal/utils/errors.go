package utils

import "errors"

// Common application errors used across services.
var (
	ErrEmptyQuery   = errors.New("EMPTY_QUERY")
	ErrMissingField = errors.New("MISSING_FIELD")
	ErrInvalidLink  = errors.New("INVALID_LINK")
	ErrInvalidSlot  = errors.New("INVALID_SLOT")
	ErrQueueFull    = errors.New("QUEUE_FULL")
)
