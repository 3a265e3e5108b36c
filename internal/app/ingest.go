package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/virden/faceoff/internal/domain/model"
	"github.com/virden/faceoff/pkg/logger"
	"github.com/virden/faceoff/pkg/metrics"
)

// Ingest validates a submission batch, drops submissions whose source
// was already ingested, and enqueues the rest for asynchronous
// admission. It reports how many were accepted and how many were
// duplicates. A full queue rejects the remainder with ErrBackpressure
// and unrecords the refused source so the batch can be retried.
func (s *Service) Ingest(ctx context.Context, submissions []model.Submission) (accepted, duplicates int, err error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return 0, 0, ErrNotStarted
	}

	if len(submissions) == 0 {
		return 0, 0, fmt.Errorf("%w: empty batch", ErrInvalidPayload)
	}
	for _, sub := range submissions {
		if strings.TrimSpace(sub.Label) == "" {
			return 0, 0, fmt.Errorf("%w: submission without label", ErrInvalidPayload)
		}
	}

	metrics.RecordIngestBatch()

	for _, sub := range submissions {
		if sub.Source != "" && s.deduper.SeenAndRecord(ctx, sub.Source) {
			duplicates++
			s.logger.Debug(ctx, "duplicate source skipped",
				logger.String("source", sub.Source),
			)
			continue
		}

		if !s.queue.Enqueue(ctx, sub) {
			if sub.Source != "" {
				s.deduper.Unrecord(ctx, sub.Source)
			}
			metrics.RecordErrorByComponent("app", "ingest_backpressure")
			s.logger.Warn(ctx, "ingest queue refused batch",
				logger.Int("accepted", accepted),
				logger.Int("duplicates", duplicates),
			)
			return accepted, duplicates, ErrBackpressure
		}
		accepted++
	}

	if duplicates > 0 {
		metrics.RecordIngestDuplicates(duplicates)
	}

	s.logger.Debug(ctx, "batch enqueued",
		logger.Int("accepted", accepted),
		logger.Int("duplicates", duplicates),
	)
	return accepted, duplicates, nil
}

// AdmitItem assigns a fresh id and the initial rating to a submission
// and adds it to the arena. Ingest workers call this once per dequeued
// submission.
func (s *Service) AdmitItem(ctx context.Context, label, source string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Item{}, ErrNotStarted
	}

	item := model.Item{
		ID:     uuid.NewString(),
		Label:  label,
		Source: source,
		Rating: s.ratings.InitialRating(),
	}
	s.arena.Add(item)

	metrics.UpdateItemsTotal(s.arena.Len())
	s.persistLocked(ctx)

	return item, nil
}
