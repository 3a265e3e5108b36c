// Package tournament runs a triple-elimination bracket over item ids.
// The bracket stores ids only; item state is reached through a Roster
// at use time, so deletions elsewhere can never leave the bracket
// holding stale items.
package tournament

import (
	"math/rand"
	"time"

	"github.com/virden/faceoff/internal/domain/model"
)

// Default tournament configuration constants.
const (
	// DefaultLossLimit is the number of losses that eliminates a
	// participant.
	DefaultLossLimit = 3
	// lossTiers is the number of loss groups a new round is built
	// from. Losses at or above the last tier share it.
	lossTiers = 3
)

// Phase is the bracket lifecycle state. Exactly one holds at any time.
type Phase int

// Tournament phases.
const (
	NotRunning Phase = iota
	RoundInProgress
	RoundBoundary
	Completed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case NotRunning:
		return "not_running"
	case RoundInProgress:
		return "round_in_progress"
	case RoundBoundary:
		return "round_boundary"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Roster is the live item collection as the bracket sees it. Win and
// loss records live on the items themselves; starting a tournament
// zeroes them, so item losses double as bracket losses.
type Roster interface {
	// Losses returns the current loss count for an id.
	Losses(id string) int
	// RecordWin credits a win to an id.
	RecordWin(id string)
	// RecordLoss charges a loss to an id.
	RecordLoss(id string)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLossLimit sets the elimination threshold. Non-positive values
// are ignored.
func WithLossLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.lossLimit = n
		}
	}
}

// WithRand injects the random source used for seeding and round
// shuffles, letting tests make brackets deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// Engine is the bracket state machine. It is not internally
// synchronized; the owning service serializes access.
type Engine struct {
	lossLimit int
	rng       *rand.Rand

	phase      Phase
	seed       []string
	active     []string
	eliminated []string
	queue      []model.Match
	round      int
	champion   string
}

// NewEngine creates an idle engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		lossLimit: DefaultLossLimit,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // non-cryptographic randomness for bracket shuffles
		phase:     NotRunning,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// Round returns the 1-based round counter, 0 before the first start.
func (e *Engine) Round() int { return e.round }

// Champion returns the winner's id, or "" while undecided.
func (e *Engine) Champion() string { return e.champion }

// LossLimit returns the elimination threshold.
func (e *Engine) LossLimit() int { return e.lossLimit }

// Active returns a copy of the surviving participant ids.
func (e *Engine) Active() []string {
	out := make([]string, len(e.active))
	copy(out, e.active)
	return out
}

// Eliminated returns a copy of the eliminated participant ids.
func (e *Engine) Eliminated() []string {
	out := make([]string, len(e.eliminated))
	copy(out, e.eliminated)
	return out
}

// NextMatch peeks the pending match at the head of the queue.
func (e *Engine) NextMatch() (model.Match, bool) {
	if e.phase != RoundInProgress || len(e.queue) == 0 {
		return model.Match{}, false
	}
	return e.queue[0], true
}

// Start begins a fresh bracket over the given ids, discarding any
// previous bracket state. The ids are shuffled once; that order is
// kept as the immutable seed. Round one pairs consecutive seeds, and
// an odd tail id sits the round out as a silent bye. The caller is
// expected to zero item win/loss/comparison counters first, since the
// bracket reads losses from the roster.
func (e *Engine) Start(ids []string) error {
	if len(ids) < 2 {
		return ErrInsufficientParticipants
	}

	seed := make([]string, len(ids))
	copy(seed, ids)
	e.rng.Shuffle(len(seed), func(i, j int) {
		seed[i], seed[j] = seed[j], seed[i]
	})

	e.seed = seed
	e.active = make([]string, len(seed))
	copy(e.active, seed)
	e.eliminated = nil
	e.queue = pairConsecutive(e.active)
	e.round = 1
	e.champion = ""
	e.phase = RoundInProgress
	if len(e.queue) == 0 {
		e.phase = RoundBoundary
	}
	return nil
}

// ResolveMatch applies a verdict to the pending head match. The given
// pair must equal the head match in either order. The loser is
// eliminated once its roster losses reach the limit; exhausting the
// queue moves the bracket to the round boundary.
func (e *Engine) ResolveMatch(winnerID, loserID string, roster Roster) error {
	if e.phase == NotRunning {
		return ErrNotRunning
	}
	if e.phase != RoundInProgress || len(e.queue) == 0 {
		return ErrNoPendingMatch
	}

	head := e.queue[0]
	straight := head.A == winnerID && head.B == loserID
	flipped := head.A == loserID && head.B == winnerID
	if !straight && !flipped {
		return ErrMatchMismatch
	}

	e.queue = e.queue[1:]
	roster.RecordWin(winnerID)
	roster.RecordLoss(loserID)

	if roster.Losses(loserID) >= e.lossLimit {
		e.active = removeID(e.active, loserID)
		e.eliminated = append(e.eliminated, loserID)
	}

	if len(e.queue) == 0 {
		e.phase = RoundBoundary
	}
	return nil
}

// AdvanceRound builds the next round at a round boundary. Ids that no
// longer exist (alive returns false) are dropped from both sets first.
// One or zero survivors complete the bracket; otherwise survivors are
// grouped by loss count, each group is shuffled independently, the
// groups are concatenated in loss order and paired consecutively, so
// comparably scarred participants meet first. A lone odd participant
// sits the round out as a silent bye. Pairing across the tier seams
// keeps every round productive; strictly tier-local pairing stalls for
// good once each tier holds an odd count.
func (e *Engine) AdvanceRound(alive func(id string) bool, roster Roster) error {
	if e.phase == NotRunning {
		return ErrNotRunning
	}
	if e.phase != RoundBoundary {
		return ErrNotAtRoundBoundary
	}

	e.active = filterIDs(e.active, alive)
	e.eliminated = filterIDs(e.eliminated, alive)

	if len(e.active) <= 1 {
		e.champion = ""
		if len(e.active) == 1 {
			e.champion = e.active[0]
		}
		e.queue = nil
		e.phase = Completed
		return nil
	}

	tiers := make([][]string, lossTiers)
	for _, id := range e.active {
		tier := roster.Losses(id)
		if tier < 0 {
			tier = 0
		}
		if tier > lossTiers-1 {
			tier = lossTiers - 1
		}
		tiers[tier] = append(tiers[tier], id)
	}

	next := make([]string, 0, len(e.active))
	for _, tier := range tiers {
		e.rng.Shuffle(len(tier), func(i, j int) {
			tier[i], tier[j] = tier[j], tier[i]
		})
		next = append(next, tier...)
	}

	e.active = next
	e.queue = pairConsecutive(next)
	e.round++
	e.phase = RoundInProgress
	return nil
}

// DeleteParticipant removes an id from the bracket in any running
// phase: both sets and any queued match it appears in. The orphaned
// opponent of a stripped match simply waits for the next round. A
// deleted champion leaves the bracket completed with no champion.
func (e *Engine) DeleteParticipant(id string) error {
	if e.phase == NotRunning {
		return ErrNotRunning
	}

	e.active = removeID(e.active, id)
	e.eliminated = removeID(e.eliminated, id)

	kept := e.queue[:0]
	for _, m := range e.queue {
		if m.A == id || m.B == id {
			continue
		}
		kept = append(kept, m)
	}
	e.queue = kept

	if e.champion == id {
		e.champion = ""
	}
	if e.phase == RoundInProgress && len(e.queue) == 0 {
		e.phase = RoundBoundary
	}
	return nil
}

// Reset discards all bracket state and returns to NotRunning.
func (e *Engine) Reset() {
	e.phase = NotRunning
	e.seed = nil
	e.active = nil
	e.eliminated = nil
	e.queue = nil
	e.round = 0
	e.champion = ""
}

// Snapshot returns the serializable bracket state, or nil when no
// tournament is running.
func (e *Engine) Snapshot() *model.TournamentState {
	if e.phase == NotRunning {
		return nil
	}
	state := &model.TournamentState{
		Seed:          append([]string(nil), e.seed...),
		ActiveIDs:     append([]string(nil), e.active...),
		EliminatedIDs: append([]string(nil), e.eliminated...),
		MatchQueue:    append([]model.Match(nil), e.queue...),
		CurrentRound:  e.round,
		ChampionID:    e.champion,
	}
	return state
}

// Restore loads a snapshot, deriving the phase from its shape: nil
// means not running, a champion means completed, an empty queue means
// a round boundary, and anything else is a round in progress.
func (e *Engine) Restore(state *model.TournamentState) {
	if state == nil {
		e.Reset()
		return
	}

	e.seed = append([]string(nil), state.Seed...)
	e.active = append([]string(nil), state.ActiveIDs...)
	e.eliminated = append([]string(nil), state.EliminatedIDs...)
	e.queue = append([]model.Match(nil), state.MatchQueue...)
	e.round = state.CurrentRound
	e.champion = state.ChampionID

	switch {
	case e.champion != "":
		e.phase = Completed
	case len(e.queue) == 0:
		e.phase = RoundBoundary
	default:
		e.phase = RoundInProgress
	}
}

// pairConsecutive builds matches from consecutive ids; an odd tail id
// is left unqueued.
func pairConsecutive(ids []string) []model.Match {
	matches := make([]model.Match, 0, len(ids)/2)
	for i := 0; i+1 < len(ids); i += 2 {
		matches = append(matches, model.Match{A: ids[i], B: ids[i+1]})
	}
	return matches
}

// removeID returns the slice without the first occurrence of id.
func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// filterIDs keeps only ids the predicate accepts.
func filterIDs(ids []string, keep func(string) bool) []string {
	out := ids[:0]
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
