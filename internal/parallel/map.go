// Package parallel runs a mapping function over a slice with bounded
// concurrency, keeping results aligned with their inputs.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every element of in, running at most limit calls at a
// time. Results and errors come back in input order, one slot per input.
// A canceled context stops new work; slots whose call never ran hold the
// context error.
func Map[E, D any](ctx context.Context, limit int, in []E, fn func(context.Context, E) (D, error)) ([]D, []error) {
	out := make([]D, len(in))
	errs := make([]error, len(in))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, e := range in {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			out[i], errs[i] = fn(gctx, e)
			return nil
		})
	}
	_ = g.Wait()

	return out, errs
}
