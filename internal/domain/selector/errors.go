package selector

import (
	"errors"
)

// Sentinel errors for pair selection.
var (
	// ErrInsufficientItems is returned when fewer than two items exist.
	ErrInsufficientItems = errors.New("not enough items to form a pair")
)
