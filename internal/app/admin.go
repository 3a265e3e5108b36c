package service

import (
	"context"
	"fmt"
	"time"

	"github.com/virden/faceoff/internal/domain/coverage"
	"github.com/virden/faceoff/internal/domain/model"
	"github.com/virden/faceoff/internal/domain/tournament"
	"github.com/virden/faceoff/pkg/logger"
	"github.com/virden/faceoff/pkg/metrics"
)

// Reset scopes.
const (
	ScopeRatings = "ratings"
	ScopeAll     = "all"
)

// Reset rewinds engine state. The ratings scope rewinds every item to
// the initial rating with zeroed counters and clears coverage and
// history; the all scope additionally evicts every item, the bracket,
// and the ingest dedup records.
func (s *Service) Reset(ctx context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}

	switch scope {
	case ScopeRatings:
		s.arena.ResetRecords(s.ratings.InitialRating())
		s.coverage.Clear()
		s.ledger.Clear()
	case ScopeAll:
		s.cancelDeletionLocked(ctx)
		s.deleteArmed = false
		s.arena.Clear()
		s.coverage.Clear()
		s.ledger.Clear()
		s.bracket.Reset()
		s.deduper.Clear(ctx)
		metrics.UpdateTournamentActive(false)
	default:
		return fmt.Errorf("%w: unknown reset scope %q", ErrInvalidPayload, scope)
	}

	s.pairA, s.pairB = "", ""
	s.updateDerivedMetricsLocked()
	s.persistLocked(ctx)

	s.logger.Info(ctx, "engine state reset", logger.String("scope", scope))
	return nil
}

// Progress summarizes coverage: how many distinct pairs have received a
// verdict out of all pairs the collection admits.
type Progress struct {
	Items       int     `json:"items"`
	UniquePairs int     `json:"unique_pairs"`
	MaxPairs    int     `json:"max_pairs"`
	Ratio       float64 `json:"ratio"`
	Verdicts    int     `json:"verdicts"`
}

// Progress reports coverage progress for the current collection.
func (s *Service) Progress(ctx context.Context) Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return Progress{}
	}

	n := s.arena.Len()
	progress := Progress{
		Items:       n,
		UniquePairs: s.coverage.UniquePairs(),
		MaxPairs:    coverage.MaxPairs(n),
		Verdicts:    s.verdictTotalLocked(),
	}
	if progress.MaxPairs > 0 {
		progress.Ratio = float64(progress.UniquePairs) / float64(progress.MaxPairs)
	}
	return progress
}

// RankedItem pairs an item with its leaderboard rank. Items with equal
// ratings share a rank.
type RankedItem struct {
	Rank int        `json:"rank"`
	Item model.Item `json:"item"`
}

// Leaderboard returns up to limit items ordered by rating, highest
// first. Non-positive or oversized limits clamp to the configured
// maximum.
func (s *Service) Leaderboard(ctx context.Context, limit int) []RankedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return []RankedItem{}
	}
	if limit <= 0 || limit > s.maxLeaderboard {
		limit = s.maxLeaderboard
	}

	ranked := assignRanks(s.arena.Ranked())
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Item returns one item together with its current rank.
func (s *Service) Item(ctx context.Context, id string) (RankedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return RankedItem{}, ErrNotStarted
	}
	if !s.arena.Has(id) {
		return RankedItem{}, ErrUnknownItem
	}
	for _, entry := range assignRanks(s.arena.Ranked()) {
		if entry.Item.ID == id {
			return entry, nil
		}
	}
	return RankedItem{}, ErrUnknownItem
}

// assignRanks walks items already sorted by rating and gives equal
// ratings the same rank; the next distinct rating takes the next
// consecutive rank.
func assignRanks(items []model.Item) []RankedItem {
	ranked := make([]RankedItem, 0, len(items))
	rank := 0
	for i, item := range items {
		if i == 0 || item.Rating != items[i-1].Rating {
			rank++
		}
		ranked = append(ranked, RankedItem{Rank: rank, Item: item})
	}
	return ranked
}

// Export captures the whole durable state as one payload.
func (s *Service) Export(ctx context.Context) model.Export {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Export{
			Version:    model.ExportVersion,
			Items:      []model.Item{},
			SeenPairs:  map[string]int{},
			ExportedAt: time.Now().UTC().Format(time.RFC3339),
		}
	}

	return model.Export{
		Version:    model.ExportVersion,
		Items:      s.arena.Items(),
		SeenPairs:  s.coverage.Map(),
		Tournament: s.bracket.Snapshot(),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Import replaces the whole engine state with the given payload. The
// payload is validated up front and rejected wholesale on any problem;
// a failed import leaves current state untouched.
func (s *Service) Import(ctx context.Context, payload model.Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if err := validateExport(payload); err != nil {
		return err
	}

	s.cancelDeletionLocked(ctx)
	s.deleteArmed = false
	s.arena.Replace(payload.Items)
	s.coverage.Replace(payload.SeenPairs)
	s.bracket.Restore(payload.Tournament)
	s.ledger.Clear()
	s.deduper.Clear(ctx)
	for _, item := range payload.Items {
		if item.Source != "" {
			s.deduper.SeenAndRecord(ctx, item.Source)
		}
	}
	s.pairA, s.pairB = "", ""

	metrics.UpdateTournamentActive(s.bracket.Phase() != tournament.NotRunning)
	s.updateDerivedMetricsLocked()
	s.persistLocked(ctx)

	s.logger.Info(ctx, "state imported",
		logger.Int("items", s.arena.Len()),
		logger.Int("pairs", s.coverage.UniquePairs()),
		logger.String("tournamentPhase", s.bracket.Phase().String()),
	)
	return nil
}

// validateExport rejects payloads that could not have come from Export.
func validateExport(payload model.Export) error {
	if payload.Version != model.ExportVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidPayload, payload.Version)
	}
	if payload.Items == nil || payload.SeenPairs == nil {
		return fmt.Errorf("%w: items and seenPairs are required", ErrInvalidPayload)
	}

	known := make(map[string]struct{}, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID == "" {
			return fmt.Errorf("%w: item without id", ErrInvalidPayload)
		}
		if _, dup := known[item.ID]; dup {
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidPayload, item.ID)
		}
		known[item.ID] = struct{}{}
		if item.Wins < 0 || item.Losses < 0 || item.Comparisons < 0 {
			return fmt.Errorf("%w: negative counters on item %q", ErrInvalidPayload, item.ID)
		}
	}

	for key, count := range payload.SeenPairs {
		a, b := coverage.SplitKey(key)
		if a == "" || b == "" || count <= 0 {
			return fmt.Errorf("%w: malformed pair entry %q", ErrInvalidPayload, key)
		}
	}

	if bracket := payload.Tournament; bracket != nil {
		for _, id := range bracket.ActiveIDs {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("%w: tournament references unknown id %q", ErrInvalidPayload, id)
			}
		}
		for _, match := range bracket.MatchQueue {
			if _, ok := known[match.A]; !ok {
				return fmt.Errorf("%w: tournament references unknown id %q", ErrInvalidPayload, match.A)
			}
			if _, ok := known[match.B]; !ok {
				return fmt.Errorf("%w: tournament references unknown id %q", ErrInvalidPayload, match.B)
			}
		}
	}

	return nil
}
