package worker

import (
	"context"
	"encoding/json"

	"github.com/Schnee09/BHEDU-sub006/internal/cache"
	"github.com/Schnee09/BHEDU-sub006/internal/config"
	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/model"
	"github.com/Schnee09/BHEDU-sub006/internal/queue"
	"github.com/Schnee09/BHEDU-sub006/internal/report"

	"github.com/rs/zerolog"
)

// RecalcWorker consumes recalc jobs emitted after grade writes, reassembles
// the affected report cards and warms the cache with them, so the next read
// skips the collaborator fan-out.
type RecalcWorker struct {
	assembler *report.Assembler
	cards     *cache.ReportCardCache
	consumer  *queue.Consumer
	pool      *Pool
	log       zerolog.Logger
}

func NewRecalcWorker(
	cfg *config.Config,
	assembler *report.Assembler,
	cards *cache.ReportCardCache,
	redisClient *queue.RedisClient,
) *RecalcWorker {
	return &RecalcWorker{
		assembler: assembler,
		cards:     cards,
		consumer:  queue.NewConsumer(redisClient, cfg),
		pool:      NewPool(cfg.Workers.Recalc.Count),
		log:       logger.With("recalc_worker"),
	}
}

func (w *RecalcWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting recalc worker")

	w.pool.Start(ctx)

	return w.consumer.ConsumeRecalcQueue(ctx, w.handleMessage)
}

func (w *RecalcWorker) Stop() {
	w.log.Info().Msg("Stopping recalc worker")
	w.pool.Stop()
}

func (w *RecalcWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.RecalcJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal recalc job")
		return err
	}
	if !job.Period.Valid() {
		w.log.Warn().Str("period", string(job.Period)).Msg("Dropping recalc job with bad period")
		return nil
	}

	w.log.Debug().
		Str("student_id", job.StudentID).
		Str("period", string(job.Period)).
		Msg("Processing recalc job")

	w.pool.Submit(func(ctx context.Context) error {
		card := w.assembler.Assemble(ctx, job.StudentID, job.Period)
		if len(card.UnavailableSections) > 0 {
			w.log.Warn().
				Str("student_id", job.StudentID).
				Strs("unavailable_sections", card.UnavailableSections).
				Msg("Not warming cache with a degraded report card")
			return nil
		}
		w.cards.Set(ctx, card)
		return nil
	})

	return nil
}
