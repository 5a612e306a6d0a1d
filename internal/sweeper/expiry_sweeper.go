package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cheertaboi/promo-code-service/internal/concurrency"
	"github.com/Cheertaboi/promo-code-service/internal/metrics"
	"github.com/Cheertaboi/promo-code-service/internal/models"
	"github.com/Cheertaboi/promo-code-service/internal/service"
)

type StaleCodeStore interface {
	ListStaleActive(ctx context.Context, now time.Time, limit int) ([]models.PromoCode, error)
	ApplyStatus(ctx context.Context, u models.StatusUpdate) error
}

// ExpirySweeper periodically relabels expired codes so the status column
// stays fresh for readers that never go through validation.
type ExpirySweeper struct {
	store     StaleCodeStore
	interval  time.Duration
	batchSize int
	workers   int
	now       func() time.Time
	log       *zerolog.Logger
}

func NewExpirySweeper(store StaleCodeStore, interval time.Duration, batchSize, workers int, logger *zerolog.Logger) *ExpirySweeper {
	l := logger.With().Str("component", "ExpirySweeper").Logger()
	return &ExpirySweeper{
		store:     store,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		now:       time.Now,
		log:       &l,
	}
}

func (s *ExpirySweeper) Run(ctx context.Context) error {
	s.log.Info().Dur("interval", s.interval).Msg("starting expiry sweeper")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("stopping expiry sweeper")
			return ctx.Err()
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("expiry sweep failed")
			}
			if n > 0 {
				s.log.Info().Int("count", n).Msg("expired promo codes relabelled")
			}
		}
	}
}

// SweepOnce processes one batch and returns how many codes were relabelled.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.now()
	stale, err := s.store.ListStaleActive(ctx, now, s.batchSize)
	if err != nil {
		return 0, err
	}

	var updates []models.StatusUpdate
	for _, p := range stale {
		if u := service.DecideExpiry(p, now); u != nil {
			updates = append(updates, *u)
		}
	}

	errs := concurrency.RunTasks(ctx, s.workers, len(updates), func(ctx context.Context, i int) error {
		return s.store.ApplyStatus(ctx, updates[i])
	})

	done := 0
	var firstErr error
	for i, err := range errs {
		if err != nil {
			s.log.Error().Err(err).Str("promo_code", updates[i].Code).Msg("expiry write failed")
			metrics.IncBestEffortFailure("expiry")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		done++
	}
	metrics.AddCodesExpired("sweep", done)
	return done, firstErr
}
