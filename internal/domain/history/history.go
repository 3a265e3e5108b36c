// Package history keeps the in-memory undo ledger for casual verdicts.
package history

import (
	"github.com/virden/faceoff/internal/domain/model"
)

// Entry records one applied verdict with what is needed to reverse it:
// the identities involved, the pair key the verdict counted, and a
// snapshot of the whole collection taken before the verdict applied.
type Entry struct {
	AID      string
	BID      string
	WinnerID string
	PairKey  string
	Snapshot []model.Item
}

// Ledger is a LIFO stack of verdict entries. It lives in process
// memory only and is never persisted; restarts start with a clean
// slate. Not internally synchronized; the owning service serializes
// access.
type Ledger struct {
	entries []Entry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make([]Entry, 0)}
}

// Record pushes an entry. The snapshot slice is copied so later arena
// mutations cannot reach recorded state.
func (l *Ledger) Record(e Entry) {
	snapshot := make([]model.Item, len(e.Snapshot))
	copy(snapshot, e.Snapshot)
	e.Snapshot = snapshot
	l.entries = append(l.entries, e)
}

// Undo pops the most recent entry. The second return is false when the
// ledger is empty; an empty undo is a no-op, not a failure.
func (l *Ledger) Undo() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	last := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return last, true
}

// Peek returns the most recent entry without removing it.
func (l *Ledger) Peek() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of undoable verdicts.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Clear drops every entry. Called on ratings and full resets.
func (l *Ledger) Clear() {
	l.entries = l.entries[:0]
}
