package ppool

import (
	"context"
	"io"
)

// ForEach applies fn to each item concurrently with Map's execution and
// output-ordering semantics, discarding results. It returns the aggregated
// error (errors.Join) or nil when every item succeeds.
func ForEach[T any](
	ctx context.Context,
	items []T,
	fn func(ctx context.Context, out io.Writer, item T) error,
	opts ...Option,
) error {
	_, err := Map(ctx, items, func(c context.Context, out io.Writer, item T) (struct{}, error) {
		return struct{}{}, fn(c, out, item)
	}, opts...)
	return err
}
