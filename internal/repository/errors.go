package repository

import "errors"

// ErrNotFound is returned when a row or state key does not exist.
var ErrNotFound = errors.New("not found")
