// Package syncgroup wraps errgroup with optional throttling of the number of concurrent goroutines.
package syncgroup

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/xerrors"
)

type (
	Group struct {
		ctx       context.Context
		group     *errgroup.Group
		semaphore *semaphore.Weighted
	}

	Option func(g *Group)
)

// New returns a group and a derived context which is canceled as soon as one of the goroutines fails.
func New(ctx context.Context, opts ...Option) (*Group, context.Context) {
	group, ctx := errgroup.WithContext(ctx)
	g := &Group{
		ctx:   ctx,
		group: group,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, ctx
}

// WithThrottling limits the number of goroutines running at the same time.
func WithThrottling(limit int) Option {
	return func(g *Group) {
		if limit > 0 {
			g.semaphore = semaphore.NewWeighted(int64(limit))
		}
	}
}

func (g *Group) Go(fn func() error) {
	g.group.Go(func() error {
		if g.semaphore != nil {
			if err := g.semaphore.Acquire(g.ctx, 1); err != nil {
				return xerrors.Errorf("failed to acquire semaphore: %w", err)
			}
			defer g.semaphore.Release(1)
		}

		return fn()
	})
}

// Wait blocks until all the goroutines return and returns the first error.
func (g *Group) Wait() error {
	return g.group.Wait()
}
