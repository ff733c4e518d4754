package services

import "errors"

// Analytics service errors
var (
	// ErrNoFile means a run was requested before any file was provided.
	ErrNoFile = errors.New("no sales file provided")

	// ErrInvalidTopLimit means the requested top-products limit is out of range.
	ErrInvalidTopLimit = errors.New("invalid top products limit")
)
