package service

import (
	"context"

	"github.com/virden/faceoff/internal/domain/arena"
	"github.com/virden/faceoff/internal/domain/tournament"
	"github.com/virden/faceoff/pkg/logger"
	"github.com/virden/faceoff/pkg/metrics"
)

// arenaRoster adapts the arena to the bracket's Roster view. Wins and
// losses land on the items themselves, so bracket records survive
// export and restart like any other item state.
type arenaRoster struct {
	arena *arena.Arena
}

func (r arenaRoster) Losses(id string) int {
	item, _ := r.arena.Get(id)
	return item.Losses
}

func (r arenaRoster) RecordWin(id string) {
	if item, ok := r.arena.Get(id); ok {
		item.Wins++
		r.arena.Update(item)
	}
}

func (r arenaRoster) RecordLoss(id string) {
	if item, ok := r.arena.Get(id); ok {
		item.Losses++
		r.arena.Update(item)
	}
}

func (s *Service) rosterLocked() tournament.Roster {
	return arenaRoster{arena: s.arena}
}

// TournamentView is the bracket state as reported to observers.
type TournamentView struct {
	Phase          string   `json:"phase"`
	Round          int      `json:"round"`
	ActiveIDs      []string `json:"active_ids"`
	EliminatedIDs  []string `json:"eliminated_ids"`
	PendingMatches int      `json:"pending_matches"`
	ChampionID     string   `json:"champion_id,omitempty"`
	LossLimit      int      `json:"loss_limit"`
}

// StartTournament begins a fresh bracket over every item in the arena,
// zeroing item counters so losses count bracket eliminations from zero.
// Starting over a running bracket discards it.
func (s *Service) StartTournament(ctx context.Context) (TournamentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return TournamentView{}, ErrNotStarted
	}

	ids := s.arena.IDs()
	if err := s.bracket.Start(ids); err != nil {
		return TournamentView{}, err
	}
	s.arena.ZeroCounters()
	s.pairA, s.pairB = "", ""

	metrics.UpdateTournamentActive(true)
	s.persistLocked(ctx)

	s.logger.Info(ctx, "tournament started",
		logger.Int("participants", len(ids)),
		logger.Int("lossLimit", s.bracket.LossLimit()),
	)

	return s.tournamentViewLocked(), nil
}

// Tournament returns the current bracket state.
func (s *Service) Tournament(ctx context.Context) TournamentView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return TournamentView{
			Phase:         tournament.NotRunning.String(),
			ActiveIDs:     []string{},
			EliminatedIDs: []string{},
			LossLimit:     s.lossLimit,
		}
	}
	return s.tournamentViewLocked()
}

// ResetTournament discards all bracket state and returns pair selection
// to casual mode.
func (s *Service) ResetTournament(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.bracket.Reset()
	s.pairA, s.pairB = "", ""

	metrics.UpdateTournamentActive(false)
	s.persistLocked(ctx)

	s.logger.Info(ctx, "tournament reset")
}

func (s *Service) tournamentViewLocked() TournamentView {
	view := TournamentView{
		Phase:         s.bracket.Phase().String(),
		Round:         s.bracket.Round(),
		ActiveIDs:     []string{},
		EliminatedIDs: []string{},
		LossLimit:     s.bracket.LossLimit(),
	}

	snapshot := s.bracket.Snapshot()
	if snapshot == nil {
		return view
	}
	if len(snapshot.ActiveIDs) > 0 {
		view.ActiveIDs = snapshot.ActiveIDs
	}
	if len(snapshot.EliminatedIDs) > 0 {
		view.EliminatedIDs = snapshot.EliminatedIDs
	}
	view.PendingMatches = len(snapshot.MatchQueue)
	view.ChampionID = snapshot.ChampionID
	return view
}
