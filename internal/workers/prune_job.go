package workers

import (
	"context"
	"sync"
	"time"

	"github.com/medescala/shiftsync/internal/logger"
)

type pruneJob struct {
	pruner   Pruner
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPruneJob creates a job that deletes stale snapshots from the local
// cache on a ticker. If interval is zero or negative it defaults to 24h.
func NewPruneJob(pruner Pruner, interval time.Duration, log *logger.Logger) Job {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &pruneJob{pruner: pruner, interval: interval, log: log}
}

func (j *pruneJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.pruner.PruneStale(jobCtx); err != nil {
					j.log.Error().Err(err).Msg("snapshot prune failed")
				}
			}
		}
	}()
}

func (j *pruneJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
