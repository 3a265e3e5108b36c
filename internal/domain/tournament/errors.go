package tournament

import (
	"errors"
)

// Sentinel errors for bracket operations.
var (
	// ErrNotRunning is returned when an operation needs a running
	// tournament and none exists.
	ErrNotRunning = errors.New("no tournament is running")

	// ErrInsufficientParticipants is returned when a bracket is started
	// with fewer than two ids.
	ErrInsufficientParticipants = errors.New("a tournament needs at least two participants")

	// ErrNoPendingMatch is returned when a verdict arrives and no match
	// is waiting to be resolved.
	ErrNoPendingMatch = errors.New("no pending match to resolve")

	// ErrMatchMismatch is returned when a verdict names a pair other
	// than the pending head match.
	ErrMatchMismatch = errors.New("verdict does not match the pending match")

	// ErrNotAtRoundBoundary is returned when a round advance is asked
	// for while matches are still pending.
	ErrNotAtRoundBoundary = errors.New("round still has pending matches")
)
