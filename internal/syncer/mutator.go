package syncer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/medescala/shiftsync/internal/logger"
)

// DefaultReconcileDelay is how long after a batch the mutator waits before
// forcing a full reload to pick up server-derived fields.
const DefaultReconcileDelay = 3 * time.Second

// MutationResult is the remote outcome of one successful mutation. Patch,
// when non-nil, folds server-assigned fields (real payment id, timestamps)
// into the optimistic item.
type MutationResult[T any] struct {
	ID    string
	Patch func(T) T
}

// Batch describes one optimistic batch operation over selected items.
type Batch[T Entity] struct {
	// Targets are the items to mutate, in processing order.
	Targets []T

	// Done reports whether an item is already in the desired end state;
	// such items are skipped, making repeated batches idempotent.
	Done func(T) bool

	// Apply is the optimistic local reduction shown before the remote call
	// confirms (e.g. mark as paid).
	Apply func(T) T

	// Mutate performs the remote change for one item. Targets are mutated
	// sequentially so per-item outcomes are deterministic and the backend
	// is never burst-loaded.
	Mutate func(ctx context.Context, target T) (MutationResult[T], error)

	// NameOf renders an item's display name for the failure report.
	NameOf func(T) string
}

// Report aggregates a batch outcome: how many items succeeded and the
// display names of those that failed and were rolled back.
type Report struct {
	Succeeded int
	Failed    []string
}

// pendingMutation records what an optimistic update displaced, so the exact
// previous value can be restored if the remote call fails.
type pendingMutation[T Entity] struct {
	entityID string
	previous T
	target   T
}

// Mutator applies optimistic batch mutations against a coordinator's
// published items and reconciles afterwards with a delayed forced reload.
type Mutator[T Entity] struct {
	coord          *Coordinator[T]
	notifier       Notifier
	log            *logger.Logger
	reconcileDelay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewMutator binds a mutator to coord. A zero reconcileDelay selects the
// default.
func NewMutator[T Entity](coord *Coordinator[T], notifier Notifier, log *logger.Logger, reconcileDelay time.Duration) *Mutator[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if reconcileDelay <= 0 {
		reconcileDelay = DefaultReconcileDelay
	}
	return &Mutator[T]{
		coord:          coord,
		notifier:       notifier,
		log:            log,
		reconcileDelay: reconcileDelay,
	}
}

// ApplyBatch runs one optimistic batch.
//
// Every target not already in the desired end state is updated locally
// first, then the remote mutations run one at a time. A failed mutation
// rolls its item back to the recorded previous value and is reported by
// display name; it never aborts the rest of the batch. When at least one
// mutation was attempted, a forced reconciling reload is scheduled after
// the configured delay.
func (m *Mutator[T]) ApplyBatch(ctx context.Context, b Batch[T]) Report {
	pending := make([]pendingMutation[T], 0, len(b.Targets))
	for _, target := range b.Targets {
		if b.Done != nil && b.Done(target) {
			continue
		}
		id := target.EntityID()
		prev, ok := m.coord.applyLocal(id, b.Apply)
		if !ok {
			// Item left the list since selection; nothing to mutate.
			continue
		}
		pending = append(pending, pendingMutation[T]{entityID: id, previous: prev, target: target})
	}

	var rep Report
	for _, pm := range pending {
		res, err := b.Mutate(ctx, pm.target)
		if err != nil {
			m.coord.restoreLocal(pm.entityID, pm.previous)
			rep.Failed = append(rep.Failed, b.NameOf(pm.target))
			m.log.Error().Err(err).Str("entity_id", pm.entityID).Msg("batch mutation failed, rolled back")
			continue
		}
		if res.Patch != nil {
			m.coord.applyLocal(pm.entityID, res.Patch)
		}
		rep.Succeeded++
	}

	m.report(rep)
	if len(pending) > 0 {
		m.scheduleReconcile(ctx)
	}
	return rep
}

// Close drops any pending reconciliation.
func (m *Mutator[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Mutator[T]) report(rep Report) {
	switch {
	case len(rep.Failed) == 0 && rep.Succeeded > 0:
		m.notifier.Notify(fmt.Sprintf("%d item(s) updated", rep.Succeeded), KindSuccess)
	case len(rep.Failed) > 0:
		m.notifier.Notify(
			fmt.Sprintf("%d updated, %d failed: %s", rep.Succeeded, len(rep.Failed), strings.Join(rep.Failed, ", ")),
			KindError,
		)
	}
}

// scheduleReconcile arms (or re-arms) the delayed forced reload that folds
// in any server-side derived fields the optimistic update could not predict.
func (m *Mutator[T]) scheduleReconcile(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.reconcileDelay, func() {
		m.coord.RequestReload(ctx, Reload{Forced: true, Trigger: TriggerManualRefresh})
	})
}
