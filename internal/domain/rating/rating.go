// Package rating applies Elo skill updates for pairwise verdicts.
package rating

import (
	"math"

	"github.com/virden/faceoff/internal/domain/model"
)

// Default rating configuration constants.
const (
	// DefaultInitialRating is the rating every item starts from.
	DefaultInitialRating = 1200.0
	// DefaultKFactor bounds how far a single verdict can move a rating.
	DefaultKFactor = 32.0
	// expectedScale is the Elo logistic scale: a gap of this many points
	// makes the stronger side a ~10:1 favorite.
	expectedScale = 400.0
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKFactor overrides the K-factor. Non-positive values are ignored.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.kFactor = k
		}
	}
}

// WithInitialRating overrides the rating assigned to new items.
// Non-positive values are ignored.
func WithInitialRating(r float64) Option {
	return func(e *Engine) {
		if r > 0 {
			e.initialRating = r
		}
	}
}

// Engine computes Elo expectations and applies verdict updates.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	kFactor       float64
	initialRating float64
}

// NewEngine creates a rating engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		kFactor:       DefaultKFactor,
		initialRating: DefaultInitialRating,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// InitialRating returns the rating new items are seeded with.
func (e *Engine) InitialRating() float64 {
	return e.initialRating
}

// KFactor returns the configured K-factor.
func (e *Engine) KFactor() float64 {
	return e.kFactor
}

// Expected returns the probability that a rating of a beats a rating
// of b: 1 / (1 + 10^((b-a)/400)). Expected(a,b) + Expected(b,a) == 1.
func (e *Engine) Expected(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/expectedScale))
}

// ApplyVerdict returns updated copies of the winner and loser after one
// comparison. Ratings move by K * (actual - expected); the winner gains
// a win, the loser a loss, and both gain a comparison. Ratings are
// unconstrained floats and may drift below the initial value.
func (e *Engine) ApplyVerdict(winner, loser model.Item) (model.Item, model.Item) {
	expWinner := e.Expected(winner.Rating, loser.Rating)
	expLoser := e.Expected(loser.Rating, winner.Rating)

	winner.Rating += e.kFactor * (1.0 - expWinner)
	loser.Rating += e.kFactor * (0.0 - expLoser)

	winner.Wins++
	loser.Losses++
	winner.Comparisons++
	loser.Comparisons++

	return winner, loser
}
