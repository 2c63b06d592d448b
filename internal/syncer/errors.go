package syncer

import (
	"context"
	"errors"
)

var (
	// ErrThrottled is returned by RequestGate.Begin when an unforced reload
	// arrives inside the minimum interval after the last completed load.
	// It is a no-op signal, not a failure to surface.
	ErrThrottled = errors.New("reload throttled")

	// ErrSuperseded marks a fetch whose token was invalidated by a newer
	// Begin before its result could be committed.
	ErrSuperseded = errors.New("request superseded")
)

// IsSuperseded reports whether err is the benign outcome of cancellation by
// a newer request. Transports signalled to abort surface context.Canceled;
// both classify as superseded and must be dropped silently.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded) || errors.Is(err, context.Canceled)
}
