package task

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Joiner is anything that yields a task result, such as *Handle.
type Joiner[R any] interface {
	Join(ctx context.Context) (R, error)
}

// Group joins a set of tasks that produce the same result type.
// The zero value is ready to use. A Group is not safe for concurrent Add.
type Group[R any] struct {
	joiners []Joiner[R]
}

// Add registers j with the group.
func (g *Group[R]) Add(j Joiner[R]) {
	g.joiners = append(g.joiners, j)
}

// Wait joins all registered tasks concurrently and returns their results in
// the order they were added. The first error is returned; joins still
// waiting are abandoned but their tasks keep running.
func (g *Group[R]) Wait(ctx context.Context) ([]R, error) {
	eg, ctx := errgroup.WithContext(ctx)
	out := make([]R, len(g.joiners))

	for i, j := range g.joiners {
		eg.Go(func() error {
			res, err := j.Join(ctx)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
