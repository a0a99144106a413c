package store

import "errors"

// ErrNotFound is returned when an operation targets a document id that does
// not resolve to an existing record.
var ErrNotFound = errors.New("store: not found")
