package model

import "errors"

var (
	// ErrNotFound is returned by lookups for records that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means optional data (stats, preferences) is missing.
	ErrUnavailable = errors.New("data unavailable")
	// ErrConflict is returned when an insert violates a uniqueness key.
	ErrConflict = errors.New("uniqueness conflict")
)
