// Package arena holds the live, ordered collection of ranked items.
// Every other engine structure stores item IDs only and re-resolves
// them here at use time, so a deletion can never leave a dangling
// pointer behind.
package arena

import (
	"sort"

	"github.com/virden/faceoff/internal/domain/model"
)

// Arena is an ordered, id-keyed item collection. It is not internally
// synchronized; the owning service serializes all access.
type Arena struct {
	order []string
	byID  map[string]model.Item
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{
		order: make([]string, 0),
		byID:  make(map[string]model.Item),
	}
}

// Len returns the number of items.
func (a *Arena) Len() int {
	return len(a.order)
}

// Has reports whether an item with the given id exists.
func (a *Arena) Has(id string) bool {
	_, ok := a.byID[id]
	return ok
}

// Get returns a copy of the item with the given id.
func (a *Arena) Get(id string) (model.Item, bool) {
	item, ok := a.byID[id]
	return item, ok
}

// Add inserts an item, appending it to the iteration order. Adding an
// id that already exists replaces the stored item in place.
func (a *Arena) Add(item model.Item) {
	if _, ok := a.byID[item.ID]; !ok {
		a.order = append(a.order, item.ID)
	}
	a.byID[item.ID] = item
}

// Update replaces an existing item and reports whether it was present.
// Unknown ids are ignored so stale references cannot resurrect items.
func (a *Arena) Update(item model.Item) bool {
	if _, ok := a.byID[item.ID]; !ok {
		return false
	}
	a.byID[item.ID] = item
	return true
}

// Remove evicts an item, preserving the order of the remainder.
func (a *Arena) Remove(id string) bool {
	if _, ok := a.byID[id]; !ok {
		return false
	}
	delete(a.byID, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns the item ids in insertion order.
func (a *Arena) IDs() []string {
	ids := make([]string, len(a.order))
	copy(ids, a.order)
	return ids
}

// Items returns copies of all items in insertion order. Item carries
// no reference fields, so the copies are deep.
func (a *Arena) Items() []model.Item {
	items := make([]model.Item, 0, len(a.order))
	for _, id := range a.order {
		items = append(items, a.byID[id])
	}
	return items
}

// Ranked returns copies of all items ordered by rating, highest first.
// Equal ratings keep their insertion order.
func (a *Arena) Ranked() []model.Item {
	items := a.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rating > items[j].Rating
	})
	return items
}

// Replace swaps the whole collection for the given items, keeping
// their slice order. Used by undo and import restores.
func (a *Arena) Replace(items []model.Item) {
	a.order = make([]string, 0, len(items))
	a.byID = make(map[string]model.Item, len(items))
	for _, item := range items {
		if _, ok := a.byID[item.ID]; ok {
			continue
		}
		a.order = append(a.order, item.ID)
		a.byID[item.ID] = item
	}
}

// ResetRecords rewinds every item to a fresh rating with zeroed
// win/loss/comparison counters. Order and identity are preserved.
func (a *Arena) ResetRecords(initialRating float64) {
	for id, item := range a.byID {
		item.Rating = initialRating
		item.Wins = 0
		item.Losses = 0
		item.Comparisons = 0
		a.byID[id] = item
	}
}

// ZeroCounters clears every item's win/loss/comparison counters while
// keeping ratings intact. Tournament starts use this so bracket loss
// counts begin from zero.
func (a *Arena) ZeroCounters() {
	for id, item := range a.byID {
		item.Wins = 0
		item.Losses = 0
		item.Comparisons = 0
		a.byID[id] = item
	}
}

// Clear removes every item.
func (a *Arena) Clear() {
	a.order = a.order[:0]
	a.byID = make(map[string]model.Item)
}
