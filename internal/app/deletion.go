package service

import (
	"context"
	"time"

	"github.com/virden/faceoff/internal/domain/tournament"
	"github.com/virden/faceoff/pkg/logger"
	"github.com/virden/faceoff/pkg/metrics"
)

// ArmDeletion primes the sequencer: the next verdict's selected side
// becomes a deletion target instead of a verdict. One-shot; scheduling
// a removal disarms.
func (s *Service) ArmDeletion(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteArmed = true
	s.logger.Info(ctx, "deletion armed")
}

// DisarmDeletion clears the armed flag without touching any pending
// deletion task.
func (s *Service) DisarmDeletion(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteArmed = false
	s.logger.Info(ctx, "deletion disarmed")
}

// DeletionArmed reports whether the next verdict schedules a removal.
func (s *Service) DeletionArmed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleteArmed
}

// PendingDeletion returns the id awaiting removal, or "" when none is.
func (s *Service) PendingDeletion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingDelete
}

// RequestDeletion schedules a deferred removal of the given item,
// superseding any deletion already pending. It returns how long the
// removal stays cancellable.
func (s *Service) RequestDeletion(ctx context.Context, id string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return 0, ErrNotStarted
	}
	if !s.arena.Has(id) {
		return 0, ErrUnknownItem
	}

	s.scheduleDeletionLocked(ctx, id)
	return s.deleteDelay, nil
}

// CancelDeletion stops the pending removal timer and clears the
// marker. It reports whether anything was pending.
func (s *Service) CancelDeletion(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelDeletionLocked(ctx)
}

// scheduleDeletionLocked starts the removal timer for id. Only one
// deletion is pending at a time; an earlier one is cancelled first.
func (s *Service) scheduleDeletionLocked(ctx context.Context, id string) {
	if s.deleteTimer != nil {
		s.deleteTimer.Stop()
		s.deleteTimer = nil
		metrics.RecordDeletionCancelled()
		s.logger.Info(ctx, "pending deletion superseded",
			logger.String("id", s.pendingDelete),
		)
	}

	s.deleteGen++
	generation := s.deleteGen
	s.pendingDelete = id
	s.deleteTimer = time.AfterFunc(s.deleteDelay, func() {
		s.completeDeletion(generation, id)
	})

	metrics.RecordDeletionScheduled()
	s.logger.Info(ctx, "deletion scheduled",
		logger.String("id", id),
		logger.Duration("delay", s.deleteDelay),
	)
}

func (s *Service) cancelDeletionLocked(ctx context.Context) bool {
	if s.deleteTimer == nil && s.pendingDelete == "" {
		return false
	}

	if s.deleteTimer != nil {
		s.deleteTimer.Stop()
		s.deleteTimer = nil
	}
	cancelled := s.pendingDelete
	s.pendingDelete = ""
	s.deleteGen++

	metrics.RecordDeletionCancelled()
	s.logger.Info(ctx, "deletion cancelled", logger.String("id", cancelled))
	return true
}

// completeDeletion is the timer callback. The generation fence makes a
// stale callback a no-op even when the same id was rescheduled while
// this one sat blocked on the lock.
func (s *Service) completeDeletion(generation uint64, id string) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.deleteGen || s.pendingDelete != id {
		return
	}
	s.pendingDelete = ""
	s.deleteTimer = nil

	item, ok := s.arena.Get(id)
	if !ok {
		return
	}

	s.arena.Remove(id)
	purged := s.coverage.Purge(id)
	if item.Source != "" {
		// Free the source so the same asset can be ingested again.
		s.deduper.Unrecord(ctx, item.Source)
	}
	if s.bracket.Phase() != tournament.NotRunning {
		_ = s.bracket.DeleteParticipant(id)
	}
	s.pairA, s.pairB = "", ""

	metrics.RecordDeletionCompleted()
	s.updateDerivedMetricsLocked()
	s.persistLocked(ctx)

	s.logger.Info(ctx, "deletion completed",
		logger.String("id", id),
		logger.String("label", item.Label),
		logger.Int("purgedPairs", purged),
	)
}
