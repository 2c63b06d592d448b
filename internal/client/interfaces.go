package client

import "context"

// Client defines the minimal lifecycle contract for the runnable client
// application.
type Client interface {
	// Run starts the background jobs and the initial load, then blocks
	// until ctx is cancelled.
	Run(ctx context.Context) error
}
