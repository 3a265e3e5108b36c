package service

import (
	"context"
	"time"

	"github.com/virden/faceoff/internal/domain/coverage"
	"github.com/virden/faceoff/internal/domain/history"
	"github.com/virden/faceoff/internal/domain/model"
	"github.com/virden/faceoff/internal/domain/tournament"
	"github.com/virden/faceoff/pkg/logger"
	"github.com/virden/faceoff/pkg/metrics"
)

// Pair-driver modes reported on the pair payload.
const (
	ModeCasual     = "casual"
	ModeTournament = "tournament"
)

// PairView describes the duel currently on offer. A decided bracket
// sets Completed and ChampionID and carries no pair.
type PairView struct {
	A               *model.Item
	B               *model.Item
	Mode            string
	Round           int
	Completed       bool
	ChampionID      string
	PendingDeleteID string
}

// VerdictOutcome reports what applying a verdict did.
type VerdictOutcome struct {
	Mode              string
	DeletionScheduled bool
	TargetID          string
	Delay             time.Duration
	Winner            model.Item
	Loser             model.Item
}

// CurrentPair returns the pair to show next. A running tournament
// serves its queue head, advancing the round at a boundary; otherwise
// the casual selector picks, and the pick stays stable until a verdict,
// undo, deletion, or reset acts on the collection.
func (s *Service) CurrentPair(ctx context.Context) (PairView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return PairView{}, ErrNotStarted
	}

	if s.bracket.Phase() != tournament.NotRunning {
		return s.tournamentPairLocked(ctx)
	}
	return s.casualPairLocked(ctx)
}

func (s *Service) tournamentPairLocked(ctx context.Context) (PairView, error) {
	for {
		if err := s.advanceBracketLocked(ctx); err != nil {
			return PairView{}, err
		}

		if s.bracket.Phase() == tournament.Completed {
			return PairView{
				Mode:            ModeTournament,
				Round:           s.bracket.Round(),
				Completed:       true,
				ChampionID:      s.bracket.Champion(),
				PendingDeleteID: s.pendingDelete,
			}, nil
		}

		match, ok := s.bracket.NextMatch()
		if !ok {
			continue
		}

		a, okA := s.arena.Get(match.A)
		b, okB := s.arena.Get(match.B)
		if !okA || !okB {
			// A queued id vanished outside the bracket's sight; strip it
			// and look again.
			if !okA {
				_ = s.bracket.DeleteParticipant(match.A)
			}
			if !okB {
				_ = s.bracket.DeleteParticipant(match.B)
			}
			continue
		}

		metrics.RecordPairServed(ModeTournament)
		return PairView{
			A:               &a,
			B:               &b,
			Mode:            ModeTournament,
			Round:           s.bracket.Round(),
			PendingDeleteID: s.pendingDelete,
		}, nil
	}
}

func (s *Service) casualPairLocked(ctx context.Context) (PairView, error) {
	if s.pairA != "" {
		a, okA := s.arena.Get(s.pairA)
		b, okB := s.arena.Get(s.pairB)
		if okA && okB {
			return PairView{
				A:               &a,
				B:               &b,
				Mode:            ModeCasual,
				PendingDeleteID: s.pendingDelete,
			}, nil
		}
		s.pairA, s.pairB = "", ""
	}

	pick, err := s.picker.Pick(s.arena.Items(), s.coverage)
	if err != nil {
		return PairView{}, err
	}

	s.pairA, s.pairB = pick.A.ID, pick.B.ID
	metrics.RecordPairServed(ModeCasual)
	if pick.Repeat {
		metrics.RecordPairRepeat()
	}
	if pick.Fallback {
		metrics.RecordPairFallback()
	}

	a, b := pick.A, pick.B
	return PairView{
		A:               &a,
		B:               &b,
		Mode:            ModeCasual,
		PendingDeleteID: s.pendingDelete,
	}, nil
}

// advanceBracketLocked builds the next round when the bracket sits at a
// boundary, crowning a champion when one id remains.
func (s *Service) advanceBracketLocked(ctx context.Context) error {
	if s.bracket.Phase() != tournament.RoundBoundary {
		return nil
	}

	if err := s.bracket.AdvanceRound(s.arena.Has, s.rosterLocked()); err != nil {
		return err
	}

	if s.bracket.Phase() == tournament.Completed {
		metrics.RecordTournamentCompletion()
		s.logger.Info(ctx, "tournament completed",
			logger.String("champion", s.bracket.Champion()),
			logger.Int("rounds", s.bracket.Round()),
		)
	} else {
		metrics.RecordTournamentRound()
	}

	s.persistLocked(ctx)
	return nil
}

// Verdict applies one comparison outcome. While the delete sequencer is
// armed the selected side becomes a deletion target instead; a running
// tournament resolves its head match; otherwise the rating engine,
// coverage tracker, and history ledger take one casual step together.
func (s *Service) Verdict(ctx context.Context, winnerID, loserID string) (VerdictOutcome, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return VerdictOutcome{}, ErrNotStarted
	}
	if winnerID == "" || loserID == "" || winnerID == loserID {
		return VerdictOutcome{}, ErrInvalidPayload
	}
	if !s.arena.Has(winnerID) || !s.arena.Has(loserID) {
		return VerdictOutcome{}, ErrUnknownItem
	}

	if s.deleteArmed {
		s.deleteArmed = false
		s.scheduleDeletionLocked(ctx, winnerID)
		return VerdictOutcome{
			DeletionScheduled: true,
			TargetID:          winnerID,
			Delay:             s.deleteDelay,
		}, nil
	}

	if s.bracket.Phase() != tournament.NotRunning {
		return s.tournamentVerdictLocked(ctx, winnerID, loserID)
	}

	outcome, err := s.casualVerdictLocked(ctx, winnerID, loserID)
	if err == nil {
		metrics.RecordVerdictLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}
	return outcome, err
}

func (s *Service) tournamentVerdictLocked(ctx context.Context, winnerID, loserID string) (VerdictOutcome, error) {
	if err := s.bracket.ResolveMatch(winnerID, loserID, s.rosterLocked()); err != nil {
		return VerdictOutcome{}, err
	}

	metrics.RecordTournamentMatch()

	winner, _ := s.arena.Get(winnerID)
	loser, _ := s.arena.Get(loserID)
	if loser.Losses >= s.bracket.LossLimit() {
		metrics.RecordTournamentElimination()
		s.logger.Info(ctx, "participant eliminated",
			logger.String("id", loserID),
			logger.Int("losses", loser.Losses),
		)
	}

	s.persistLocked(ctx)
	return VerdictOutcome{Mode: ModeTournament, Winner: winner, Loser: loser}, nil
}

func (s *Service) casualVerdictLocked(ctx context.Context, winnerID, loserID string) (VerdictOutcome, error) {
	// Snapshot before any mutation; undo restores it verbatim.
	snapshot := s.arena.Items()

	winner, _ := s.arena.Get(winnerID)
	loser, _ := s.arena.Get(loserID)
	updatedWinner, updatedLoser := s.ratings.ApplyVerdict(winner, loser)
	s.arena.Update(updatedWinner)
	s.arena.Update(updatedLoser)

	key := coverage.PairKey(winnerID, loserID)
	s.coverage.Record(key)
	s.ledger.Record(history.Entry{
		AID:      winnerID,
		BID:      loserID,
		WinnerID: winnerID,
		PairKey:  key,
		Snapshot: snapshot,
	})

	s.pairA, s.pairB = "", ""

	metrics.RecordVerdict()
	s.updateDerivedMetricsLocked()
	s.persistLocked(ctx)

	s.logger.Debug(ctx, "verdict applied",
		logger.String("winner", winnerID),
		logger.String("loser", loserID),
		logger.Float64("winnerRating", updatedWinner.Rating),
		logger.Float64("loserRating", updatedLoser.Rating),
	)

	return VerdictOutcome{Mode: ModeCasual, Winner: updatedWinner, Loser: updatedLoser}, nil
}

// Undo reverts the most recent casual verdict: the pre-verdict snapshot
// replaces the collection and the pair's coverage count steps back
// once. It reports false without error when there is nothing to undo,
// and refuses outright while a tournament is running.
func (s *Service) Undo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return false, ErrNotStarted
	}
	if s.bracket.Phase() != tournament.NotRunning {
		metrics.RecordUndoRejected()
		return false, ErrTournamentActive
	}

	entry, ok := s.ledger.Undo()
	if !ok {
		return false, nil
	}

	s.arena.Replace(entry.Snapshot)
	s.coverage.Uncount(entry.PairKey)
	s.pairA, s.pairB = "", ""

	metrics.RecordUndo()
	s.updateDerivedMetricsLocked()
	s.persistLocked(ctx)

	s.logger.Debug(ctx, "verdict undone",
		logger.String("winner", entry.WinnerID),
		logger.String("pair", entry.PairKey),
	)

	return true, nil
}
