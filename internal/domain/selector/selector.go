// Package selector picks the next casual comparison pair, steering
// toward under-compared items and away from already-seen pairs.
package selector

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/virden/faceoff/internal/domain/coverage"
	"github.com/virden/faceoff/internal/domain/model"
)

// Default selection configuration constants.
const (
	// DefaultPoolFraction is the share of least-compared items eligible
	// for a draw.
	DefaultPoolFraction = 0.4
	// DefaultRepeatProbability is the chance an already-seen pair is
	// accepted anyway.
	DefaultRepeatProbability = 0.25
	// DefaultMaxAttempts bounds the draws before falling back to a
	// uniform random pair.
	DefaultMaxAttempts = 20
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithPoolFraction sets the least-compared pool share. Values outside
// (0, 1] are ignored.
func WithPoolFraction(f float64) Option {
	return func(s *Selector) {
		if f > 0 && f <= 1 {
			s.poolFraction = f
		}
	}
}

// WithRepeatProbability sets the chance of accepting a seen pair.
// Values outside [0, 1] are ignored.
func WithRepeatProbability(p float64) Option {
	return func(s *Selector) {
		if p >= 0 && p <= 1 {
			s.repeatProbability = p
		}
	}
}

// WithMaxAttempts sets the draw budget before the uniform fallback.
// Non-positive values are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRand injects the random source, letting tests seed selection.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// Coverage answers whether a canonical pair key has been seen. A
// *coverage.Tracker satisfies it.
type Coverage interface {
	Seen(key string) bool
}

// Pick is one selected pair. Repeat marks a pair served before;
// Fallback marks a pair chosen by the uniform random escape hatch.
type Pick struct {
	A        model.Item
	B        model.Item
	Key      string
	Repeat   bool
	Fallback bool
}

// Selector draws comparison pairs. It is intentionally randomized; the
// rng is injectable so tests can seed it.
type Selector struct {
	poolFraction      float64
	repeatProbability float64
	maxAttempts       int
	rng               *rand.Rand
}

// New creates a selector with configuration options.
func New(opts ...Option) *Selector {
	s := &Selector{
		poolFraction:      DefaultPoolFraction,
		repeatProbability: DefaultRepeatProbability,
		maxAttempts:       DefaultMaxAttempts,
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // non-cryptographic randomness for pair picking
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Pick selects the next pair from the given items. It sorts by
// comparison count, draws from the least-compared pool until it finds
// an unseen pair (or wins the repeat coin flip), and after the attempt
// budget returns a uniform random pair from the full set. Fails only
// when fewer than two items exist.
func (s *Selector) Pick(items []model.Item, cov Coverage) (Pick, error) {
	n := len(items)
	if n < 2 {
		return Pick{}, ErrInsufficientItems
	}

	sorted := make([]model.Item, n)
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Comparisons < sorted[j].Comparisons
	})

	poolSize := int(math.Ceil(s.poolFraction * float64(n)))
	if poolSize < 2 {
		poolSize = 2
	}
	if poolSize > n {
		poolSize = n
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		a, b := s.drawDistinct(sorted[:poolSize])
		key := coverage.PairKey(a.ID, b.ID)
		if !cov.Seen(key) {
			return Pick{A: a, B: b, Key: key}, nil
		}
		if s.rng.Float64() < s.repeatProbability {
			return Pick{A: a, B: b, Key: key, Repeat: true}, nil
		}
	}

	a, b := s.drawDistinct(sorted)
	key := coverage.PairKey(a.ID, b.ID)
	return Pick{A: a, B: b, Key: key, Repeat: cov.Seen(key), Fallback: true}, nil
}

// drawDistinct returns two items at distinct random indices.
func (s *Selector) drawDistinct(items []model.Item) (model.Item, model.Item) {
	i := s.rng.Intn(len(items))
	j := s.rng.Intn(len(items) - 1)
	if j >= i {
		j++
	}
	return items[i], items[j]
}
