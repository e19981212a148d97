package cluster

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run creates a Group of size members and calls fn once per member, each in
// its own goroutine. The first error cancels the context passed to the other
// members, so members blocked in a collective return instead of waiting for
// the failed one. Run returns the first error.
func Run(ctx context.Context, size int, fn func(ctx context.Context, c Coordinator) error) error {
	g, err := NewGroup(size)
	if err != nil {
		return err
	}
	eg, egctx := errgroup.WithContext(ctx)
	for rank := 0; rank < size; rank++ {
		m, err := g.Member(rank)
		if err != nil {
			return err
		}
		eg.Go(func() error { return fn(egctx, m) })
	}

	return eg.Wait()
}
