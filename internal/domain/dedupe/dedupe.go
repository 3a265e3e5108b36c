// Package dedupe tracks already-ingested sources so repeated batches
// stay idempotent.
package dedupe

import (
	"context"
	"sync"
)

// defaultMaxSize bounds the tracked set unless overridden.
const defaultMaxSize = 50000

// Deduper records seen sources for at-most-once admission.
type Deduper interface {
	// SeenAndRecord atomically checks whether source was seen and
	// records it if not. Returns true when it was already seen.
	SeenAndRecord(ctx context.Context, source string) bool

	// Unrecord forgets a source so it can be admitted again: after
	// queue backpressure rolls a batch back, or when the item built
	// from it is deleted.
	Unrecord(ctx context.Context, source string)

	// Clear forgets every source. Full resets use it.
	Clear(ctx context.Context)

	// Size returns the number of tracked sources.
	Size() int64
}

// memoryDeduper implements Deduper with a seen-set plus insertion
// order. Bounded mode (maxSize > 0) evicts the oldest source once the
// cap is reached; non-positive sizes mean unbounded.
type memoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
}

// NewMemoryDeduper creates a deduper with configuration options.
func NewMemoryDeduper(opts ...Option) Deduper {
	d := &memoryDeduper{
		seen:    make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SeenAndRecord atomically checks and records a source. Returns true
// when the source was already tracked.
func (d *memoryDeduper) SeenAndRecord(ctx context.Context, source string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[source]; ok {
		return true
	}

	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}

	d.seen[source] = struct{}{}
	d.order = append(d.order, source)
	return false
}

// Unrecord forgets a source if it is tracked.
func (d *memoryDeduper) Unrecord(ctx context.Context, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[source]; !ok {
		return
	}
	delete(d.seen, source)
	for i, s := range d.order {
		if s == source {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Clear forgets every tracked source.
func (d *memoryDeduper) Clear(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen = make(map[string]struct{})
	d.order = d.order[:0]
}

// Size returns the number of tracked sources.
func (d *memoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return int64(len(d.seen))
}

// evictOldest drops the earliest recorded source. Callers hold d.mu.
func (d *memoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	oldest := d.order[0]
	d.order = d.order[1:]
	delete(d.seen, oldest)
}
