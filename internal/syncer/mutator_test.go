package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/medescala/shiftsync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadedCoordinator builds a coordinator already holding rows as committed
// state, counting every fetch.
func loadedCoordinator(t *testing.T, rows []row, calls *atomic.Int32) *Coordinator[row] {
	t.Helper()
	fetch := func(_ context.Context, _ Filters) ([]row, error) {
		if calls != nil {
			calls.Add(1)
		}
		return rows, nil
	}
	c := NewCoordinator[row](fetch, qFilters{q: "x"}, nil, logger.Nop(), noThrottle)
	t.Cleanup(c.Close)

	c.RequestReload(context.Background(), Reload{Trigger: TriggerFocus})
	waitItems(t, c, len(rows))
	return c
}

func markPaidBatch(targets []row, mutate func(ctx context.Context, r row) (MutationResult[row], error)) Batch[row] {
	return Batch[row]{
		Targets: targets,
		Done:    func(r row) bool { return r.paid },
		Apply: func(r row) row {
			r.paid = true
			return r
		},
		Mutate: mutate,
		NameOf: func(r row) string { return "Shift " + r.id },
	}
}

// Scenario C / rollback: the failing item reverts to its exact previous
// value, the succeeding one keeps its optimistic state plus the
// server-assigned fields from the mutation result.
func TestMutator_PartialFailureRollsBackOnlyFailedItems(t *testing.T) {
	c := loadedCoordinator(t, []row{{id: "r1"}, {id: "r2"}}, nil)
	notifier := &recordingNotifier{}
	m := NewMutator[row](c, notifier, logger.Nop(), time.Hour)
	defer m.Close()

	mutate := func(_ context.Context, r row) (MutationResult[row], error) {
		if r.id == "r2" {
			return MutationResult[row]{}, errors.New("network error")
		}
		return MutationResult[row]{
			ID: r.id,
			Patch: func(v row) row {
				v.paymentID = "pay-1"
				return v
			},
		}, nil
	}

	rep := m.ApplyBatch(context.Background(), markPaidBatch(c.Snapshot().Items, mutate))

	assert.Equal(t, 1, rep.Succeeded)
	assert.Equal(t, []string{"Shift r2"}, rep.Failed)

	items := c.Snapshot().Items
	require.Len(t, items, 2)
	assert.True(t, items[0].paid)
	assert.Equal(t, "pay-1", items[0].paymentID, "server-assigned id folded in")
	assert.False(t, items[1].paid, "failed item restored to its previous value")
	assert.Empty(t, items[1].paymentID)

	msgs := notifier.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "1 updated, 1 failed")
	assert.Contains(t, msgs[0], "Shift r2")
}

func TestMutator_AllSucceed(t *testing.T) {
	c := loadedCoordinator(t, []row{{id: "r1"}, {id: "r2"}}, nil)
	notifier := &recordingNotifier{}
	m := NewMutator[row](c, notifier, logger.Nop(), time.Hour)
	defer m.Close()

	mutate := func(_ context.Context, r row) (MutationResult[row], error) {
		return MutationResult[row]{ID: r.id}, nil
	}
	rep := m.ApplyBatch(context.Background(), markPaidBatch(c.Snapshot().Items, mutate))

	assert.Equal(t, 2, rep.Succeeded)
	assert.Empty(t, rep.Failed)
	for _, it := range c.Snapshot().Items {
		assert.True(t, it.paid)
	}

	msgs := notifier.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "2 item(s) updated")
}

// P2: re-running the same batch over items already in the desired state
// performs no remote calls and schedules no reconcile.
func TestMutator_IdempotentSecondBatch(t *testing.T) {
	// serverPaid mimics the backend: once the mutations land, every
	// subsequent fetch (including the reconcile) returns paid rows.
	var serverPaid atomic.Bool
	var fetches atomic.Int32
	fetch := func(_ context.Context, _ Filters) ([]row, error) {
		fetches.Add(1)
		p := serverPaid.Load()
		return []row{{id: "r1", paid: p}, {id: "r2", paid: p}}, nil
	}
	c := NewCoordinator[row](fetch, qFilters{q: "x"}, nil, logger.Nop(), noThrottle)
	t.Cleanup(c.Close)
	c.RequestReload(context.Background(), Reload{Trigger: TriggerFocus})
	waitItems(t, c, 2)

	m := NewMutator[row](c, nil, logger.Nop(), 20*time.Millisecond)
	defer m.Close()

	var mutations atomic.Int32
	mutate := func(_ context.Context, r row) (MutationResult[row], error) {
		mutations.Add(1)
		serverPaid.Store(true)
		return MutationResult[row]{ID: r.id}, nil
	}

	m.ApplyBatch(context.Background(), markPaidBatch(c.Snapshot().Items, mutate))
	require.Equal(t, int32(2), mutations.Load())

	// Wait for the reconcile to commit the server truth.
	require.Eventually(t, func() bool {
		items := c.Snapshot().Items
		return len(items) == 2 && items[0].paid && items[1].paid && fetches.Load() == 2
	}, 2*time.Second, 5*time.Millisecond)

	rep := m.ApplyBatch(context.Background(), markPaidBatch(c.Snapshot().Items, mutate))

	assert.Zero(t, rep.Succeeded)
	assert.Empty(t, rep.Failed)
	assert.Equal(t, int32(2), mutations.Load(), "nothing to do means no remote calls")

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(2), fetches.Load(), "empty batch must not schedule a reconcile")
}

// All optimistic updates land before the first remote call, so the UI shows
// the whole selection flipped at once.
func TestMutator_OptimisticUpdatesPrecedeMutations(t *testing.T) {
	c := loadedCoordinator(t, []row{{id: "r1"}, {id: "r2"}, {id: "r3"}}, nil)
	m := NewMutator[row](c, nil, logger.Nop(), time.Hour)
	defer m.Close()

	var firstCall atomic.Bool
	mutate := func(_ context.Context, r row) (MutationResult[row], error) {
		if firstCall.CompareAndSwap(false, true) {
			for _, it := range c.Snapshot().Items {
				assert.True(t, it.paid, "item %s not yet optimistic at first mutation", it.id)
			}
		}
		return MutationResult[row]{ID: r.id}, nil
	}

	rep := m.ApplyBatch(context.Background(), markPaidBatch(c.Snapshot().Items, mutate))
	assert.Equal(t, 3, rep.Succeeded)
}

func TestMutator_SchedulesForcedReconcile(t *testing.T) {
	var fetches atomic.Int32
	c := loadedCoordinator(t, []row{{id: "r1"}}, &fetches)
	m := NewMutator[row](c, nil, logger.Nop(), 20*time.Millisecond)
	defer m.Close()

	mutate := func(_ context.Context, r row) (MutationResult[row], error) {
		return MutationResult[row]{ID: r.id}, nil
	}
	m.ApplyBatch(context.Background(), markPaidBatch(c.Snapshot().Items, mutate))

	require.Equal(t, int32(1), fetches.Load())
	require.Eventually(t, func() bool { return fetches.Load() == 2 }, time.Second, 5*time.Millisecond,
		"reconciling reload must fire after the delay")
}

func TestMutator_VanishedTargetIsSkipped(t *testing.T) {
	c := loadedCoordinator(t, []row{{id: "r1"}}, nil)
	m := NewMutator[row](c, nil, logger.Nop(), time.Hour)
	defer m.Close()

	var mutations atomic.Int32
	mutate := func(_ context.Context, r row) (MutationResult[row], error) {
		mutations.Add(1)
		return MutationResult[row]{ID: r.id}, nil
	}

	// Target captured before the item left the list.
	gone := row{id: "ghost"}
	rep := m.ApplyBatch(context.Background(), markPaidBatch([]row{gone}, mutate))

	assert.Zero(t, rep.Succeeded)
	assert.Empty(t, rep.Failed)
	assert.Zero(t, mutations.Load())
}
