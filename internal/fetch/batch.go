package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one batched task. Value is the zero value when
// Err is set.
type Outcome[R any] struct {
	Value R
	Err   error
}

// Batcher runs tasks in consecutive chunks of at most Size, all tasks of a
// chunk concurrently. A chunk is awaited in full before the next one starts.
type Batcher struct {
	Size int
	// Progress, when set, is called after every chunk with the number of
	// finished tasks.
	Progress func(done, total int)
}

// InBatches runs fn over tasks and returns one Outcome per task, in input
// order. A failing task never affects its neighbours.
//
// Once ctx is done no further chunks are issued; remaining tasks get ctx's
// error. A chunk already in flight always runs to completion.
func InBatches[T, R any](ctx context.Context, b Batcher, tasks []T, fn func(context.Context, T) (R, error)) []Outcome[R] {
	size := b.Size
	if size < 1 {
		size = 1
	}
	out := make([]Outcome[R], len(tasks))

	for lo := 0; lo < len(tasks); lo += size {
		if err := ctx.Err(); err != nil {
			for i := lo; i < len(tasks); i++ {
				out[i] = Outcome[R]{Err: err}
			}
			return out
		}

		hi := min(lo+size, len(tasks))
		var g errgroup.Group
		for i := lo; i < hi; i++ {
			g.Go(func() error {
				v, err := fn(ctx, tasks[i])
				if err != nil {
					var zero R
					out[i] = Outcome[R]{Value: zero, Err: err}
					return nil
				}
				out[i] = Outcome[R]{Value: v}
				return nil
			})
		}
		_ = g.Wait()

		if b.Progress != nil {
			b.Progress(hi, len(tasks))
		}
	}
	return out
}

// Values returns the outcome values in order; failed tasks contribute the
// zero value.
func Values[R any](outcomes []Outcome[R]) []R {
	vals := make([]R, len(outcomes))
	for i, o := range outcomes {
		vals[i] = o.Value
	}
	return vals
}

// Failed counts the outcomes that carry an error.
func Failed[R any](outcomes []Outcome[R]) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
