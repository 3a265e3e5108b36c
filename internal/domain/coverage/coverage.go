// Package coverage tracks which unordered item pairs have met and how
// often, backing repeat avoidance and progress reporting.
package coverage

import "strings"

// keySeparator joins the two ids of a pair key. IDs are UUIDs and can
// never contain it.
const keySeparator = "|"

// PairKey returns the canonical key for an unordered pair: the two ids
// sorted lexicographically and joined with the separator, so (a,b) and
// (b,a) always map to the same key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + keySeparator + b
}

// SplitKey returns the two ids of a pair key.
func SplitKey(key string) (string, string) {
	parts := strings.SplitN(key, keySeparator, 2)
	if len(parts) != 2 {
		return key, ""
	}
	return parts[0], parts[1]
}

// MaxPairs returns the number of distinct pairs n items can form:
// n*(n-1)/2.
func MaxPairs(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Tracker counts comparisons per unordered pair. It is not internally
// synchronized; the owning service serializes access.
type Tracker struct {
	counts map[string]int
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{counts: make(map[string]int)}
}

// Record counts one more meeting of the pair, creating the entry at 1.
func (t *Tracker) Record(key string) {
	t.counts[key]++
}

// Uncount reverses one Record. The entry disappears when its count
// reaches zero, so undone verdicts leave no trace.
func (t *Tracker) Uncount(key string) {
	n, ok := t.counts[key]
	if !ok {
		return
	}
	if n <= 1 {
		delete(t.counts, key)
		return
	}
	t.counts[key] = n - 1
}

// Count returns how many times the pair has met.
func (t *Tracker) Count(key string) int {
	return t.counts[key]
}

// Seen reports whether the pair has met at least once.
func (t *Tracker) Seen(key string) bool {
	return t.counts[key] > 0
}

// UniquePairs returns the number of distinct pairs seen.
func (t *Tracker) UniquePairs() int {
	return len(t.counts)
}

// Purge drops every key referencing the given id and returns how many
// entries were removed. Called when an item is deleted.
func (t *Tracker) Purge(id string) int {
	removed := 0
	prefix := id + keySeparator
	suffix := keySeparator + id
	for key := range t.counts {
		if strings.HasPrefix(key, prefix) || strings.HasSuffix(key, suffix) {
			delete(t.counts, key)
			removed++
		}
	}
	return removed
}

// Map returns a copy of the pair counts for export.
func (t *Tracker) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Replace swaps the tracker contents for the given counts, copying the
// map and dropping non-positive entries. Used by import restores.
func (t *Tracker) Replace(counts map[string]int) {
	t.counts = make(map[string]int, len(counts))
	for k, v := range counts {
		if v > 0 {
			t.counts[k] = v
		}
	}
}

// Clear removes every entry.
func (t *Tracker) Clear() {
	t.counts = make(map[string]int)
}
