package repository

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	// Any other error means the store itself failed.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate key")
)
