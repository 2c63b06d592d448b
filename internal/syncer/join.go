package syncer

import (
	"context"
	"sync"
)

// FetchFunc loads a remote collection for the given filter state. It must
// honour ctx cancellation; a fetcher that ignores the signal degrades the
// gate to ignore-stale-result behaviour, which is still correct.
type FetchFunc[T any] func(ctx context.Context, f Filters) ([]T, error)

// MergeFunc folds the primary and secondary collections of one load cycle
// into the published view. It must be pure.
type MergeFunc[P, S, T any] func(primary []P, secondary []S) []T

// Join composes a fetch of a primary collection and a related secondary
// collection into a single FetchFunc: both fetches run concurrently, the
// join waits for both (no result is committed until the pair completes),
// and the merged view is returned. The primary fetch's error wins when both
// fail.
func Join[P, S, T any](primary FetchFunc[P], secondary FetchFunc[S], merge MergeFunc[P, S, T]) FetchFunc[T] {
	return func(ctx context.Context, f Filters) ([]T, error) {
		var (
			wg   sync.WaitGroup
			p    []P
			s    []S
			perr error
			serr error
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			p, perr = primary(ctx, f)
		}()
		go func() {
			defer wg.Done()
			s, serr = secondary(ctx, f)
		}()
		wg.Wait()

		if perr != nil {
			return nil, perr
		}
		if serr != nil {
			return nil, serr
		}
		return merge(p, s), nil
	}
}
