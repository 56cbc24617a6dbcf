package dependencies

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// runStage applies fn to every item concurrently. Each result lands in the slot of its input,
// so output order matches input order. The first error cancels the stage and is returned.
func runStage[In, Out any](
	ctx context.Context,
	limit int,
	items []In,
	fn func(ctx context.Context, item In) (Out, error),
) ([]Out, error) {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	out := make([]Out, len(items))
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			res, err := fn(groupCtx, item)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
