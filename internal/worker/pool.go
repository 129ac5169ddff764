package worker

import (
	"context"
	"sync"

	"github.com/Schnee09/BHEDU-sub006/internal/logger"

	"github.com/rs/zerolog"
)

// Pool bounds how many goroutines run jobs at once. Long-lived consumers use
// Start/Submit/Stop; batch callers use ForEach, which additionally collects
// per-item errors instead of dropping them.
type Pool struct {
	workerCount int
	jobChan     chan func(context.Context) error
	wg          sync.WaitGroup
	log         zerolog.Logger
}

func NewPool(workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		workerCount: workerCount,
		jobChan:     make(chan func(context.Context) error, workerCount*2),
		log:         logger.With("worker_pool"),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("worker_count", p.workerCount).Msg("Starting worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) Stop() {
	p.log.Info().Msg("Stopping worker pool")
	close(p.jobChan)
	p.wg.Wait()
	p.log.Info().Msg("Worker pool stopped")
}

func (p *Pool) Submit(job func(context.Context) error) {
	select {
	case p.jobChan <- job:
	default:
		p.log.Warn().Msg("Worker pool job queue full, job dropped")
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log := p.log.With().Int("worker_id", id).Logger()
	log.Debug().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Worker stopping due to context cancellation")
			return
		case job, ok := <-p.jobChan:
			if !ok {
				log.Debug().Msg("Worker stopping due to closed job channel")
				return
			}

			if err := job(ctx); err != nil {
				log.Error().Err(err).Msg("Job execution failed")
			}
		}
	}
}

// ForEach runs fn for every index in [0, n) with at most workerCount
// goroutines and returns the per-index errors. Indices carry no ordering
// dependency on each other; a failed index never stops the others. Once the
// context is cancelled, remaining indices fail with the context error.
func (p *Pool) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				errs[i] = fn(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return errs
}
