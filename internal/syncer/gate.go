package syncer

import (
	"context"
	"sync"
	"time"
)

// DefaultMinReloadInterval is the client-side self-throttle window between
// completed loads. Forced reloads bypass it.
const DefaultMinReloadInterval = 2 * time.Second

// Token identifies one logical fetch issued through a RequestGate. A token
// stays current until the next successful Begin call.
type Token struct {
	gen uint64
}

// RequestGate guarantees at most one logical fetch in flight per coordinator
// and prevents a superseded fetch from committing results. Begin cancels the
// context of the previous outstanding request; callers must re-check
// IsCurrent after their fetch resolves because not every transport honours
// cancellation promptly.
type RequestGate struct {
	minInterval time.Duration

	mu            sync.Mutex
	gen           uint64
	cancel        context.CancelFunc
	lastCompleted time.Time
}

// NewRequestGate creates a gate with the given self-throttle interval.
// A non-positive interval disables throttling.
func NewRequestGate(minInterval time.Duration) *RequestGate {
	if minInterval < 0 {
		minInterval = 0
	}
	return &RequestGate{minInterval: minInterval}
}

// Begin supersedes any outstanding request and opens a new one. It returns a
// context derived from ctx that is cancelled when a newer Begin arrives, and
// the token the caller must present to IsCurrent/Complete.
//
// An unforced Begin inside the throttle window after the last *completed*
// load is rejected with ErrThrottled and does not disturb the in-flight
// request, if any.
func (g *RequestGate) Begin(ctx context.Context, forced bool) (context.Context, Token, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !forced && g.minInterval > 0 && !g.lastCompleted.IsZero() &&
		time.Since(g.lastCompleted) < g.minInterval {
		return nil, Token{}, ErrThrottled
	}

	if g.cancel != nil {
		g.cancel()
	}

	g.gen++
	reqCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel

	return reqCtx, Token{gen: g.gen}, nil
}

// IsCurrent reports whether tok belongs to the most recent Begin.
func (g *RequestGate) IsCurrent(tok Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return tok.gen == g.gen
}

// Complete records the completion of the load identified by tok, starting
// the throttle window. Returns false (and records nothing) when tok has
// already been superseded.
func (g *RequestGate) Complete(tok Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if tok.gen != g.gen {
		return false
	}
	g.lastCompleted = time.Now()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	return true
}

// Shutdown cancels the outstanding request and invalidates all tokens.
// Safe to call repeatedly.
func (g *RequestGate) Shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
