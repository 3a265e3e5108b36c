package store

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrKeyNotFound = errors.New("key not found")
)
