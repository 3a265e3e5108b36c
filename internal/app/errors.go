package service

import "errors"

// Service-level sentinel errors. Domain packages carry their own; these
// cover conditions only the composed service can detect.
var (
	// ErrTournamentActive rejects operations that are disabled while a
	// tournament drives pair selection, such as undo.
	ErrTournamentActive = errors.New("tournament active")

	// ErrInvalidPayload rejects a request payload wholesale; no partial
	// state is applied.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUnknownItem marks a reference to an item id that is not in the
	// arena. Stale references are filtered, never applied.
	ErrUnknownItem = errors.New("unknown item")

	// ErrBackpressure signals that the ingest queue refused a batch.
	ErrBackpressure = errors.New("ingest queue full")

	// ErrNotStarted rejects operations on a service that is not running.
	ErrNotStarted = errors.New("service not started")
)
