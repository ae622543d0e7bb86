package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

// OrphanSweeper cancels payment intents that were issued but never got a
// booking row.
type OrphanSweeper struct {
	queue    domain.OrphanQueue
	payments domain.PaymentProcessor
	bookings domain.BookingRepository
	workers  int
	batch    int
}

func NewOrphanSweeper(q domain.OrphanQueue, p domain.PaymentProcessor, b domain.BookingRepository, workers int) *OrphanSweeper {
	if workers <= 0 {
		workers = 4
	}
	return &OrphanSweeper{queue: q, payments: p, bookings: b, workers: workers, batch: 100}
}

type SweepReport struct {
	Cancelled int
	Skipped   int
	Requeued  int
}

// SweepOnce drains up to one batch from the queue. Ids that still fail are
// pushed back for the next run.
func (s *OrphanSweeper) SweepOnce(ctx context.Context) (SweepReport, error) {
	ids, err := s.queue.Pop(ctx, s.batch)
	if err != nil {
		return SweepReport{}, fmt.Errorf("pop orphans: %w", err)
	}
	if len(ids) == 0 {
		return SweepReport{}, nil
	}
	log.Info().Int("count", len(ids)).Msg("sweeping orphaned payment intents")

	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	var cancelled, skipped, requeued int64

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			s.requeue(ctx, id)
			atomic.AddInt64(&requeued, 1)
			continue
		}
		wg.Add(1)
		go func(intentID string) {
			defer wg.Done()
			defer sem.Release(1)

			// a booking may have been written by a later retry of the same attempt
			exists, err := s.bookings.ExistsForPaymentIntent(ctx, intentID)
			if err == nil && exists {
				atomic.AddInt64(&skipped, 1)
				observability.ObserveOrphan("skipped")
				log.Info().Str("payment_intent_id", intentID).Msg("orphan has a booking; skipped")
				return
			}
			if err != nil {
				log.Warn().Err(err).Str("payment_intent_id", intentID).Msg("booking lookup failed")
				s.requeue(ctx, intentID)
				atomic.AddInt64(&requeued, 1)
				return
			}
			if err := s.payments.CancelIntent(ctx, intentID); err != nil {
				log.Warn().Err(err).Str("payment_intent_id", intentID).Msg("cancel failed")
				s.requeue(ctx, intentID)
				atomic.AddInt64(&requeued, 1)
				return
			}
			observability.ObserveOrphan("cancelled")
			atomic.AddInt64(&cancelled, 1)
		}(id)
	}
	wg.Wait()

	rep := SweepReport{Cancelled: int(cancelled), Skipped: int(skipped), Requeued: int(requeued)}
	log.Info().Int("cancelled", rep.Cancelled).Int("skipped", rep.Skipped).Int("requeued", rep.Requeued).Msg("sweep completed")
	return rep, nil
}

func (s *OrphanSweeper) requeue(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.queue.Push(ctx, id); err != nil {
		log.Error().Err(err).Str("payment_intent_id", id).Msg("requeue failed")
		return
	}
	observability.ObserveOrphan("requeued")
}
