package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/medescala/shiftsync/internal/logger"
)

// Entity is any record with a stable string identity.
type Entity interface {
	EntityID() string
}

// Trigger names the UI event that asked for a reload.
type Trigger string

const (
	TriggerFocus          Trigger = "focus"
	TriggerFilterChange   Trigger = "filter-change"
	TriggerSearch         Trigger = "search"
	TriggerExternalNotify Trigger = "external-notify"
	TriggerManualRefresh  Trigger = "manual-refresh"
)

// Reload describes one reload request.
type Reload struct {
	// Forced bypasses both the unchanged-filter short circuit and the
	// gate's self-throttle.
	Forced bool

	// Trigger routes the request: filter-change and search go through the
	// debouncer, everything else proceeds immediately.
	Trigger Trigger
}

// State is the published view model. Listeners receive value copies; the
// coordinator alone mutates the authoritative instance.
type State[T Entity] struct {
	// Items is the merged collection in its committed order.
	Items []T

	// Loading is true while an initial or filter-changing load is in
	// flight; Refreshing is true for forced reloads over existing data.
	// The two are never both true.
	Loading    bool
	Refreshing bool

	// FilterKey is the canonical key of the most recently *completed*
	// load. A superseded load never writes it.
	FilterKey string

	// LoadedAt is the commit time of the last completed load.
	LoadedAt time.Time

	// Err holds the last transport failure, empty after any successful
	// load. Prior Items are preserved when Err is set.
	Err string
}

// Options tunes a coordinator. Zero values select the defaults.
type Options struct {
	MinReloadInterval time.Duration
	SearchDebounce    time.Duration
	FilterDebounce    time.Duration
}

func (o Options) withDefaults() Options {
	if o.MinReloadInterval == 0 {
		o.MinReloadInterval = DefaultMinReloadInterval
	}
	if o.SearchDebounce == 0 {
		o.SearchDebounce = DefaultSearchDebounce
	}
	if o.FilterDebounce == 0 {
		o.FilterDebounce = DefaultFilterDebounce
	}
	return o
}

// Coordinator orchestrates loads of one remote collection: it owns the
// request gate, the debouncer, the current filter state, and the State it
// publishes to listeners.
type Coordinator[T Entity] struct {
	fetch    FetchFunc[T]
	gate     *RequestGate
	debounce *Debouncer
	notifier Notifier
	log      *logger.Logger
	opts     Options

	mu         sync.Mutex
	filters    Filters
	state      State[T]
	version    uint64
	loadedOnce bool
	closed     bool
	nextSub    int
	listeners  map[int]func(State[T])

	pubMu     sync.Mutex
	published uint64
}

// NewCoordinator creates a coordinator over fetch with the given initial
// filter state. The state starts empty with Loading set; nothing is fetched
// until the first RequestReload.
func NewCoordinator[T Entity](fetch FetchFunc[T], filters Filters, notifier Notifier, log *logger.Logger, opts Options) *Coordinator[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	opts = opts.withDefaults()

	return &Coordinator[T]{
		fetch:     fetch,
		gate:      NewRequestGate(opts.MinReloadInterval),
		debounce:  NewDebouncer(),
		notifier:  notifier,
		log:       log,
		opts:      opts,
		state:     State[T]{Loading: true},
		listeners: make(map[int]func(State[T])),
	}
}

// SetFilters replaces the current filter state. It does not reload by
// itself; callers follow up with RequestReload carrying the matching
// trigger, so re-renders without a named event never cause traffic.
func (c *Coordinator[T]) SetFilters(f Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = f
}

// Filters returns the current filter state.
func (c *Coordinator[T]) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Snapshot returns a copy of the current state.
func (c *Coordinator[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.state
	snap.Items = append([]T(nil), c.state.Items...)
	return snap
}

// OnChange registers a listener invoked with a state copy after every
// change. Returns an unsubscribe func.
func (c *Coordinator[T]) OnChange(fn func(State[T])) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// SubscribeExternal wires the coordinator to an external "data changed"
// source: every event forces an external-notify reload. The returned
// unsubscribe func must be called on teardown.
func (c *Coordinator[T]) SubscribeExternal(ctx context.Context, src ExternalNotifier) func() {
	return src.Subscribe(func() {
		c.RequestReload(ctx, Reload{Forced: true, Trigger: TriggerExternalNotify})
	})
}

// RequestReload asks for a reload of the collection.
//
// Unforced requests whose filter key matches the last completed load are
// dropped once an initial load has happened. Filter-change and search
// triggers are debounced; the debounced callback re-reads the filters, so a
// burst of changes yields one fetch with the final state. All other
// triggers proceed immediately, subject to the gate's throttle.
func (c *Coordinator[T]) RequestReload(ctx context.Context, r Reload) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	var key string
	if c.filters != nil {
		key = c.filters.Key()
	}
	skip := !r.Forced && c.loadedOnce && key == c.state.FilterKey
	c.mu.Unlock()

	if skip {
		return
	}

	switch r.Trigger {
	case TriggerFilterChange:
		c.debounce.Schedule(c.opts.FilterDebounce, func() { c.beginLoad(ctx, r) })
	case TriggerSearch:
		c.debounce.Schedule(c.opts.SearchDebounce, func() { c.beginLoad(ctx, r) })
	default:
		c.beginLoad(ctx, r)
	}
}

// Close tears the coordinator down: pending debounced work is dropped, the
// in-flight fetch is cancelled, and no further state is published.
func (c *Coordinator[T]) Close() {
	c.debounce.Cancel()
	c.gate.Shutdown()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.listeners = make(map[int]func(State[T]))
}

func (c *Coordinator[T]) beginLoad(ctx context.Context, r Reload) {
	reqCtx, tok, err := c.gate.Begin(ctx, r.Forced)
	if err != nil {
		c.log.Debug().Str("trigger", string(r.Trigger)).Msg("reload throttled")
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	f := c.filters
	if r.Forced && c.loadedOnce {
		c.state.Refreshing = true
		c.state.Loading = false
	} else {
		c.state.Loading = true
		c.state.Refreshing = false
	}
	snap, v, fns := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap, v, fns)

	go c.runFetch(reqCtx, tok, f, r)
}

func (c *Coordinator[T]) runFetch(ctx context.Context, tok Token, f Filters, r Reload) {
	items, err := c.fetch(ctx, f)
	if err != nil {
		if IsSuperseded(err) || ctx.Err() != nil {
			c.log.Debug().Str("trigger", string(r.Trigger)).Msg("fetch superseded")
			return
		}
		c.failLoad(tok, r, err)
		return
	}

	c.mu.Lock()
	if c.closed || !c.gate.IsCurrent(tok) {
		c.mu.Unlock()
		return
	}
	c.gate.Complete(tok)
	var key string
	if f != nil {
		key = f.Key()
	}
	c.state.Items = items
	c.state.Loading = false
	c.state.Refreshing = false
	c.state.FilterKey = key
	c.state.LoadedAt = time.Now()
	c.state.Err = ""
	c.loadedOnce = true
	snap, v, fns := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Debug().
		Str("trigger", string(r.Trigger)).
		Str("filter_key", key).
		Int("items", len(items)).
		Msg("reload committed")
	c.publish(snap, v, fns)
}

func (c *Coordinator[T]) failLoad(tok Token, r Reload, err error) {
	c.mu.Lock()
	if c.closed || !c.gate.IsCurrent(tok) {
		c.mu.Unlock()
		return
	}
	// Prior items stay untouched: a failed refresh never blanks the list.
	c.state.Loading = false
	c.state.Refreshing = false
	c.state.Err = err.Error()
	hadItems := len(c.state.Items) > 0
	snap, v, fns := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Error().Err(err).Str("trigger", string(r.Trigger)).Msg("reload failed")
	c.publish(snap, v, fns)
	if hadItems {
		c.notifier.Notify("could not refresh, showing previous data", KindError)
	}
}

// applyLocal rewrites the item with the given id through fn and publishes
// the result, returning the previous value for rollback. Used exclusively
// by the optimistic mutator.
func (c *Coordinator[T]) applyLocal(id string, fn func(T) T) (prev T, ok bool) {
	c.mu.Lock()
	var zero T
	if c.closed {
		c.mu.Unlock()
		return zero, false
	}
	idx := -1
	for i := range c.state.Items {
		if c.state.Items[i].EntityID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return zero, false
	}

	items := make([]T, len(c.state.Items))
	copy(items, c.state.Items)
	prev = items[idx]
	items[idx] = fn(items[idx])
	c.state.Items = items
	snap, v, fns := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap, v, fns)
	return prev, true
}

func (c *Coordinator[T]) restoreLocal(id string, prev T) {
	c.applyLocal(id, func(T) T { return prev })
}

// snapshotLocked copies the state, stamps it with a monotonically growing
// version and captures the listener set. Caller holds c.mu.
func (c *Coordinator[T]) snapshotLocked() (State[T], uint64, []func(State[T])) {
	c.version++
	snap := c.state
	snap.Items = append([]T(nil), c.state.Items...)

	fns := make([]func(State[T]), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return snap, c.version, fns
}

// publish delivers snap to listeners. Versions serialize delivery: once a
// newer snapshot has been published, older ones are dropped so listeners
// never observe state moving backwards.
func (c *Coordinator[T]) publish(snap State[T], v uint64, fns []func(State[T])) {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	if v <= c.published {
		return
	}
	c.published = v
	for _, fn := range fns {
		fn(snap)
	}
}
