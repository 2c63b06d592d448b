package workers

import (
	"context"
	"sync"
	"time"

	"github.com/medescala/shiftsync/internal/syncer"
)

type refreshJob struct {
	reloader Reloader
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshJob creates a job that forces a reload of the shift list on a
// ticker, keeping long-running sessions current even without pull-to-refresh.
// If interval is zero or negative it defaults to 5 minutes. The job is idle
// until Start is called.
func NewRefreshJob(reloader Reloader, interval time.Duration) Job {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &refreshJob{reloader: reloader, interval: interval}
}

// Start stops any previously running instance, then launches a background
// goroutine that forces a reload every interval. The goroutine exits when
// ctx is cancelled or Stop is called.
func (j *refreshJob) Start(ctx context.Context) {
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
				j.reloader.RequestReload(jobCtx, syncer.Reload{
					Forced:  true,
					Trigger: syncer.TriggerExternalNotify,
				})
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until it has
// fully exited. Safe to call when the job is not running.
func (j *refreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
