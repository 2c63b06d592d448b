// Package workers provides the background jobs that run alongside the
// client: the periodic forced refresh of the shift list and snapshot cache
// pruning. It defines the Job interface and a Workers aggregate that starts
// and stops a set of jobs together.
package workers

import (
	"context"

	"github.com/medescala/shiftsync/internal/syncer"
)

// Job is a background worker with an explicit lifecycle. Start launches the
// job's goroutine and returns immediately; Stop blocks until it has exited.
// Both must be safe to call repeatedly.
type Job interface {
	Start(ctx context.Context)
	Stop()
}

// Reloader requests reloads of the shift list. Satisfied by the sync
// coordinator.
type Reloader interface {
	RequestReload(ctx context.Context, r syncer.Reload)
}

// Pruner deletes stale local snapshots. Satisfied by the snapshot cache
// bound to a retention window.
type Pruner interface {
	PruneStale(ctx context.Context) error
}
