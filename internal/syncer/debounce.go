package syncer

import (
	"sync"
	"time"
)

// Default debounce delays, matching the two classes of reactive input:
// fast-changing search text and structural filter changes.
const (
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultFilterDebounce = time.Second
)

// Debouncer coalesces bursts of reload requests into a single trailing
// call. Scheduling replaces any pending call; the callback runs at most once
// per quiescence window and never after Cancel.
type Debouncer struct {
	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

// NewDebouncer returns an idle debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Schedule arranges for fn to run after delay of quiescence, replacing any
// previously scheduled call. A non-positive delay still defers fn to the
// timer goroutine so callers never re-enter their own locks.
func (d *Debouncer) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	if delay < 0 {
		delay = 0
	}

	// The seq check closes the race where a timer fires concurrently with
	// Stop: a stale callback observes a newer seq and gives up.
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		stale := d.seq != seq
		d.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
