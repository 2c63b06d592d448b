package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medescala/shiftsync/internal/adapter"
	"github.com/medescala/shiftsync/internal/config"
	"github.com/medescala/shiftsync/internal/logger"
	"github.com/medescala/shiftsync/internal/store"
	"github.com/medescala/shiftsync/internal/syncer"
	"github.com/medescala/shiftsync/internal/workers"
	"github.com/medescala/shiftsync/models"
)

// App is the client runtime. It owns the sync coordinator for the shift
// list, the optimistic payment mutator, the selection state, and the
// background jobs.
type App struct {
	cfg      *config.StructuredConfig
	log      *logger.Logger
	notifier syncer.Notifier

	db    *store.DB
	api   adapter.ServerAdapter
	cache store.SnapshotCache

	coord     *syncer.Coordinator[models.ShiftView]
	mutator   *syncer.Mutator[models.ShiftView]
	selection *syncer.SelectionTracker
	bus       *syncer.Broadcaster
	unsubBus  func()
	jobs      *workers.Workers
}

// NewApp opens the local snapshot database, runs migrations, and wires the
// full client runtime. notifier receives user-facing notices (refresh
// failures, batch reports, offline fallbacks); nil discards them.
func NewApp(cfg *config.StructuredConfig, log *logger.Logger, notifier syncer.Notifier) (*App, error) {
	ctx := context.Background()

	db, err := store.NewConnectSQLite(ctx, cfg.Cache.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}

	api := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.RequestTimeout,
	})
	cache := store.NewSnapshotCache(db, log)

	a := newAppWith(cfg, log, notifier, api, cache)
	a.db = db
	return a, nil
}

// newAppWith wires the runtime over already-constructed ports. Tests use it
// to inject mocks.
func newAppWith(
	cfg *config.StructuredConfig,
	log *logger.Logger,
	notifier syncer.Notifier,
	api adapter.ServerAdapter,
	cache store.SnapshotCache,
) *App {
	if log == nil {
		log = logger.Nop()
	}
	if notifier == nil {
		notifier = syncer.NopNotifier{}
	}

	source := withSnapshotCache(newShiftSource(api), cache, notifier, log)
	coord := syncer.NewCoordinator[models.ShiftView](
		source,
		models.ShiftFilters{Month: time.Now().Format("2006-01")},
		notifier,
		log,
		syncer.Options{
			MinReloadInterval: cfg.Sync.MinReloadInterval,
			SearchDebounce:    cfg.Sync.SearchDebounce,
			FilterDebounce:    cfg.Sync.FilterDebounce,
		},
	)

	pruner := snapshotPruner{cache: cache, ttl: cfg.Cache.TTL}

	return &App{
		cfg:       cfg,
		log:       log,
		notifier:  notifier,
		api:       api,
		cache:     cache,
		coord:     coord,
		mutator:   syncer.NewMutator(coord, notifier, log, cfg.Sync.ReconcileDelay),
		selection: syncer.NewSelectionTracker(),
		bus:       syncer.NewBroadcaster(),
		jobs: workers.New(
			workers.NewRefreshJob(coord, cfg.Sync.RefreshInterval),
			workers.NewPruneJob(pruner, 24*time.Hour, log),
		),
	}
}

// Run starts the background jobs and the initial load, then blocks until
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.unsubBus = a.coord.SubscribeExternal(ctx, a.bus)
	a.jobs.Start(ctx)
	a.coord.RequestReload(ctx, syncer.Reload{Trigger: syncer.TriggerFocus})

	<-ctx.Done()
	return a.Close()
}

// Close tears the runtime down. Safe to call more than once.
func (a *App) Close() error {
	a.jobs.Stop()
	if a.unsubBus != nil {
		a.unsubBus()
		a.unsubBus = nil
	}
	a.mutator.Close()
	a.coord.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// State returns the current published list state.
func (a *App) State() syncer.State[models.ShiftView] {
	return a.coord.Snapshot()
}

// OnChange registers a listener for list state changes. Returns an
// unsubscribe func.
func (a *App) OnChange(fn func(syncer.State[models.ShiftView])) func() {
	return a.coord.OnChange(fn)
}

// Filters returns the current filter state.
func (a *App) Filters() models.ShiftFilters {
	return shiftFilters(a.coord.Filters())
}

// ApplyFilters replaces the filter state and requests a debounced reload.
// Rapid successive changes collapse into one fetch of the final state; a
// state identical to the current one is a no-op.
func (a *App) ApplyFilters(ctx context.Context, f models.ShiftFilters) {
	if !syncer.FilterChanged(a.coord.Filters(), f) {
		return
	}
	a.coord.SetFilters(f)
	a.coord.RequestReload(ctx, syncer.Reload{Trigger: syncer.TriggerFilterChange})
}

// Search updates the free-text search dimension with its shorter debounce.
func (a *App) Search(ctx context.Context, query string) {
	f := a.Filters()
	f.Search = query
	a.coord.SetFilters(f)
	a.coord.RequestReload(ctx, syncer.Reload{Trigger: syncer.TriggerSearch})
}

// OnFocus requests an unforced reload, typically when the list screen
// regains focus. Skipped when the filters are unchanged, throttled when the
// last load was recent.
func (a *App) OnFocus(ctx context.Context) {
	a.coord.RequestReload(ctx, syncer.Reload{Trigger: syncer.TriggerFocus})
}

// Refresh forces a reload, bypassing both the unchanged-filter skip and the
// throttle (pull-to-refresh).
func (a *App) Refresh(ctx context.Context) {
	a.coord.RequestReload(ctx, syncer.Reload{Forced: true, Trigger: syncer.TriggerManualRefresh})
}

// NotifyDataChanged signals that shift data changed outside the list screen
// (e.g. a shift was edited elsewhere); every subscribed list reloads.
func (a *App) NotifyDataChanged() {
	a.bus.Publish()
}

// Selection exposes the multi-select state for the list screen.
func (a *App) Selection() *syncer.SelectionTracker {
	return a.selection
}

// MarkSelectedPaid optimistically marks every selected unpaid shift as paid
// and registers the payments one by one. Failed items roll back and are
// reported by name; the selection is cleared afterwards.
func (a *App) MarkSelectedPaid(ctx context.Context) syncer.Report {
	rep := a.mutator.ApplyBatch(ctx, syncer.Batch[models.ShiftView]{
		Targets: a.selectedViews(),
		Done:    func(v models.ShiftView) bool { return v.IsPaid },
		Apply: func(v models.ShiftView) models.ShiftView {
			v.IsPaid = true
			v.PaymentID = models.NewID()
			return v
		},
		Mutate: func(ctx context.Context, v models.ShiftView) (syncer.MutationResult[models.ShiftView], error) {
			created, err := a.api.CreatePayment(ctx, models.Payment{
				ID:      models.NewID(),
				ShiftID: v.ID,
				Amount:  v.Value,
				PaidAt:  time.Now(),
			})
			if err != nil {
				return syncer.MutationResult[models.ShiftView]{}, err
			}
			return syncer.MutationResult[models.ShiftView]{
				ID: v.EntityID(),
				Patch: func(cur models.ShiftView) models.ShiftView {
					cur.IsPaid = true
					cur.PaymentID = created.ID
					return cur
				},
			}, nil
		},
		NameOf: models.ShiftView.DisplayName,
	})

	a.selection.Clear()
	return rep
}

// UnmarkSelectedPaid optimistically reverts every selected paid shift and
// deletes the payments one by one. A payment already gone on the server
// counts as success.
func (a *App) UnmarkSelectedPaid(ctx context.Context) syncer.Report {
	rep := a.mutator.ApplyBatch(ctx, syncer.Batch[models.ShiftView]{
		Targets: a.selectedViews(),
		Done:    func(v models.ShiftView) bool { return !v.IsPaid },
		Apply: func(v models.ShiftView) models.ShiftView {
			v.IsPaid = false
			v.PaymentID = ""
			return v
		},
		Mutate: func(ctx context.Context, v models.ShiftView) (syncer.MutationResult[models.ShiftView], error) {
			err := a.api.DeletePayment(ctx, v.PaymentID)
			if err != nil && !errors.Is(err, adapter.ErrNotFound) {
				return syncer.MutationResult[models.ShiftView]{}, err
			}
			return syncer.MutationResult[models.ShiftView]{ID: v.EntityID()}, nil
		},
		NameOf: models.ShiftView.DisplayName,
	})

	a.selection.Clear()
	return rep
}

// selectedViews returns the selected items in list order.
func (a *App) selectedViews() []models.ShiftView {
	items := a.coord.Snapshot().Items
	selected := make([]models.ShiftView, 0, a.selection.Count())
	for _, v := range items {
		if a.selection.IsSelected(v.EntityID()) {
			selected = append(selected, v)
		}
	}
	return selected
}

// snapshotPruner binds the cache to its retention window for the prune job.
type snapshotPruner struct {
	cache store.SnapshotCache
	ttl   time.Duration
}

func (p snapshotPruner) PruneStale(ctx context.Context) error {
	return p.cache.Prune(ctx, time.Now().Add(-p.ttl))
}
