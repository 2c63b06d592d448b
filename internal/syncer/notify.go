package syncer

import "sync"

// Kind classifies a user-facing notification.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Notifier is the injected fire-and-forget notification capability (toasts
// in the mobile shell). Implementations must not block.
type Notifier interface {
	Notify(message string, kind Kind)
}

// NopNotifier discards all notifications. Used in tests and headless runs.
type NopNotifier struct{}

func (NopNotifier) Notify(string, Kind) {}

// ExternalNotifier is a zero-argument "something changed elsewhere" channel
// the coordinator subscribes to for cross-screen reconciliation.
type ExternalNotifier interface {
	// Subscribe registers fn and returns an unsubscribe func. The caller
	// must invoke it on teardown so a torn-down coordinator is not reloaded.
	Subscribe(fn func()) (unsubscribe func())
}

// Broadcaster is the in-process ExternalNotifier implementation: a minimal
// pub/sub hub for "data changed" events.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewBroadcaster returns an empty hub.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]func())}
}

// Subscribe implements ExternalNotifier.
func (b *Broadcaster) Subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish invokes every subscriber. Callbacks run outside the hub lock so a
// subscriber may unsubscribe or publish again without deadlocking.
func (b *Broadcaster) Publish() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
