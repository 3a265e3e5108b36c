// Package service provides the core ranking service that implements
// the dependencies required by the HTTP API. All engine state lives
// behind a single lock: every mutation, the deletion timer callback,
// and the ingest workers funnel through it, so pair selection never
// observes a half-applied verdict.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	ingestqueue "github.com/virden/faceoff/internal/adapters/mq/queue"
	ingestworker "github.com/virden/faceoff/internal/adapters/mq/worker"
	"github.com/virden/faceoff/internal/adapters/store"
	"github.com/virden/faceoff/internal/domain/arena"
	"github.com/virden/faceoff/internal/domain/coverage"
	"github.com/virden/faceoff/internal/domain/dedupe"
	"github.com/virden/faceoff/internal/domain/history"
	"github.com/virden/faceoff/internal/domain/model"
	"github.com/virden/faceoff/internal/domain/rating"
	"github.com/virden/faceoff/internal/domain/selector"
	"github.com/virden/faceoff/internal/domain/tournament"
	"github.com/virden/faceoff/pkg/logger"
	"github.com/virden/faceoff/pkg/metrics"
)

// Store keys for the durable slices of engine state. History is
// process-lifetime only and deliberately has no key.
const (
	itemsKey      = "faceoff:items"
	pairsKey      = "faceoff:pairs"
	tournamentKey = "faceoff:tournament"
)

// defaultDeleteDelay is how long a scheduled deletion stays cancellable.
const defaultDeleteDelay = 550 * time.Millisecond

// Service implements the API dependencies for the ranking engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	arena      *arena.Arena
	ratings    *rating.Engine
	coverage   *coverage.Tracker
	picker     *selector.Selector
	ledger     *history.Ledger
	bracket    *tournament.Engine
	deduper    dedupe.Deduper
	queue      ingestqueue.Queue
	workerPool *ingestworker.Pool
	state      store.Store

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	initialRating  float64
	kFactor        float64
	poolFraction   float64
	repeatProb     float64
	selectAttempts int
	lossLimit      int
	deleteDelay    time.Duration
	maxLeaderboard int
	rngSeed        int64

	// Current pair cache, casual mode only. Empty ids mean nothing is
	// cached and the next pair request recomputes.
	pairA string
	pairB string

	// Deletion sequencer state. The generation counter fences the timer
	// callback against a cancel-then-reschedule of the same id.
	deleteArmed   bool
	pendingDelete string
	deleteTimer   *time.Timer
	deleteGen     uint64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingest worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the source deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStore sets the durable state store. Defaults to the in-memory
// store when unset.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.state = st
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInitialRating sets the rating assigned to newly admitted items.
func WithInitialRating(r float64) Option {
	return func(s *Service) {
		if r > 0 {
			s.initialRating = r
		}
	}
}

// WithKFactor sets the Elo K-factor applied to casual verdicts.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.kFactor = k
		}
	}
}

// WithPoolFraction sets the least-compared share eligible for casual
// pair selection.
func WithPoolFraction(f float64) Option {
	return func(s *Service) {
		if f > 0 && f <= 1 {
			s.poolFraction = f
		}
	}
}

// WithRepeatProbability sets the chance an already-seen pair is served
// again in casual mode.
func WithRepeatProbability(p float64) Option {
	return func(s *Service) {
		if p >= 0 && p <= 1 {
			s.repeatProb = p
		}
	}
}

// WithSelectAttempts sets how many pool draws the selector makes before
// falling back to the full item set.
func WithSelectAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.selectAttempts = n
		}
	}
}

// WithLossLimit sets the tournament elimination threshold.
func WithLossLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.lossLimit = n
		}
	}
}

// WithDeleteDelay sets how long scheduled deletions stay cancellable.
func WithDeleteDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.deleteDelay = d
		}
	}
}

// WithMaxLeaderboardLimit caps how many entries a leaderboard request
// may return.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLeaderboard = n
		}
	}
}

// WithRandSeed fixes the random source used by the selector and the
// bracket. Zero keeps a time-based seed.
func WithRandSeed(seed int64) Option {
	return func(s *Service) {
		s.rngSeed = seed
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    2,
		queueSize:      10000,
		dedupeSize:     50000,
		initialRating:  rating.DefaultInitialRating,
		kFactor:        rating.DefaultKFactor,
		poolFraction:   selector.DefaultPoolFraction,
		repeatProb:     selector.DefaultRepeatProbability,
		selectAttempts: selector.DefaultMaxAttempts,
		lossLimit:      tournament.DefaultLossLimit,
		deleteDelay:    defaultDeleteDelay,
		maxLeaderboard: 100,
		logger:         nil, // Will be replaced when the service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the engine components, restores durable state from
// the store, and starts the ingest pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	s.logger.Info(ctx, "starting ranking service...")

	if s.state == nil {
		s.state = store.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory state store")
	}

	var rng *rand.Rand
	if s.rngSeed != 0 {
		rng = rand.New(rand.NewSource(s.rngSeed)) //nolint:gosec // non-cryptographic randomness, seeded for reproducible runs
	}

	// Initialize components
	s.arena = arena.New()
	s.ratings = rating.NewEngine(
		rating.WithKFactor(s.kFactor),
		rating.WithInitialRating(s.initialRating),
	)
	s.coverage = coverage.New()
	pickerOpts := []selector.Option{
		selector.WithPoolFraction(s.poolFraction),
		selector.WithRepeatProbability(s.repeatProb),
		selector.WithMaxAttempts(s.selectAttempts),
	}
	bracketOpts := []tournament.Option{
		tournament.WithLossLimit(s.lossLimit),
	}
	if rng != nil {
		pickerOpts = append(pickerOpts, selector.WithRand(rng))
		bracketOpts = append(bracketOpts, tournament.WithRand(rng))
	}
	s.picker = selector.New(pickerOpts...)
	s.bracket = tournament.NewEngine(bracketOpts...)
	s.ledger = history.New()
	s.deduper = dedupe.NewMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = ingestqueue.NewInMemoryQueue(
		ingestqueue.WithCapacity(s.queueSize),
		ingestqueue.WithBufferSize(s.queueSize),
	)

	if err := s.loadStateLocked(ctx); err != nil {
		return err
	}

	// The pool admits dequeued submissions back through AdmitItem.
	s.workerPool = ingestworker.NewPool(s.workerCount, s.queue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "ranking service started",
		logger.Int("items", s.arena.Len()),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	metrics.UpdateItemsTotal(s.arena.Len())
	metrics.UpdateTournamentActive(s.bracket.Phase() != tournament.NotRunning)

	return nil
}

// Stop gracefully shuts down the service. Any pending deletion is
// cancelled rather than allowed to fire into a stopped service.
func (s *Service) Stop() {
	ctx := context.Background()

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.cancelDeletionLocked(ctx)
	pool := s.workerPool
	queue := s.queue
	state := s.state
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping ranking service...")

	// Workers take the service lock to admit items, so they are stopped
	// outside it.
	if pool != nil {
		pool.Stop()
	}
	if queue != nil {
		_ = queue.Close()
	}
	if state != nil {
		_ = state.Close()
	}

	s.logger.Info(ctx, "ranking service stopped")
}

// loadStateLocked restores items, pair coverage, and bracket state from
// the store. Missing keys mean a fresh start. An unreadable blob is
// logged and skipped so one bad key cannot keep the service down, but a
// failing store aborts startup.
func (s *Service) loadStateLocked(ctx context.Context) error {
	data, err := s.state.Get(ctx, itemsKey)
	switch {
	case err == nil:
		var items []model.Item
		if uerr := json.Unmarshal(data, &items); uerr != nil {
			s.logger.Error(ctx, "discarding unreadable item state", logger.Error(uerr))
		} else {
			s.arena.Replace(items)
			for _, item := range items {
				if item.Source != "" {
					s.deduper.SeenAndRecord(ctx, item.Source)
				}
			}
		}
	case !errors.Is(err, store.ErrKeyNotFound):
		return fmt.Errorf("restoring item state: %w", err)
	}

	data, err = s.state.Get(ctx, pairsKey)
	switch {
	case err == nil:
		var pairs map[string]int
		if uerr := json.Unmarshal(data, &pairs); uerr != nil {
			s.logger.Error(ctx, "discarding unreadable pair state", logger.Error(uerr))
		} else {
			s.coverage.Replace(pairs)
		}
	case !errors.Is(err, store.ErrKeyNotFound):
		return fmt.Errorf("restoring pair state: %w", err)
	}

	data, err = s.state.Get(ctx, tournamentKey)
	switch {
	case err == nil:
		var bracket model.TournamentState
		if uerr := json.Unmarshal(data, &bracket); uerr != nil {
			s.logger.Error(ctx, "discarding unreadable tournament state", logger.Error(uerr))
		} else {
			s.bracket.Restore(&bracket)
		}
	case !errors.Is(err, store.ErrKeyNotFound):
		return fmt.Errorf("restoring tournament state: %w", err)
	}

	return nil
}

// persistLocked writes the durable slices of engine state through the
// store. The in-memory state stays authoritative: a failing disk is
// logged and counted, never allowed to unwind an applied mutation.
func (s *Service) persistLocked(ctx context.Context) {
	s.setJSONLocked(ctx, itemsKey, s.arena.Items())
	s.setJSONLocked(ctx, pairsKey, s.coverage.Map())

	if snapshot := s.bracket.Snapshot(); snapshot != nil {
		s.setJSONLocked(ctx, tournamentKey, snapshot)
		return
	}
	if err := s.state.Delete(ctx, tournamentKey); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		metrics.RecordErrorByComponent("app", "persist_error")
		s.logger.Error(ctx, "clearing tournament state failed", logger.Error(err))
	}
}

func (s *Service) setJSONLocked(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.state.Set(ctx, key, data)
	}
	if err != nil {
		metrics.RecordErrorByComponent("app", "persist_error")
		s.logger.Error(ctx, "persisting state failed",
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

// verdictTotalLocked derives the number of casual verdicts applied so
// far. Every casual verdict increments two comparison counters.
func (s *Service) verdictTotalLocked() int {
	total := 0
	for _, item := range s.arena.Items() {
		total += item.Comparisons
	}
	return total / 2
}

// updateDerivedMetricsLocked refreshes the gauges computed from the
// whole collection.
func (s *Service) updateDerivedMetricsLocked() {
	n := s.arena.Len()
	metrics.UpdateItemsTotal(n)

	maxPairs := coverage.MaxPairs(n)
	ratio := 0.0
	if maxPairs > 0 {
		ratio = float64(s.coverage.UniquePairs()) / float64(maxPairs)
	}
	metrics.UpdateCoverage(s.coverage.UniquePairs(), ratio)

	items := s.arena.Items()
	spread := 0.0
	if len(items) > 0 {
		lo, hi := items[0].Rating, items[0].Rating
		for _, item := range items[1:] {
			if item.Rating < lo {
				lo = item.Rating
			}
			if item.Rating > hi {
				hi = item.Rating
			}
		}
		spread = hi - lo
	}
	metrics.UpdateRatingSpread(spread)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)

		stats["items"] = s.arena.Len()
		stats["queueLength"] = queueLen
		stats["uniquePairs"] = s.coverage.UniquePairs()
		stats["verdicts"] = s.verdictTotalLocked()
		stats["historyDepth"] = s.ledger.Len()
		stats["tournamentPhase"] = s.bracket.Phase().String()
		stats["deleteArmed"] = s.deleteArmed
		stats["pendingDeletion"] = s.pendingDelete
		stats["dedupeEntries"] = s.deduper.Size()

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateItemsTotal(s.arena.Len())
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
