package mandel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type computeOptions struct {
	workers  int
	bandRows int
}

func defaultComputeOptions() computeOptions {
	return computeOptions{
		workers:  runtime.GOMAXPROCS(0),
		bandRows: 16,
	}
}

// Option configures ComputeEscapeGridContext and RenderContext.
type Option func(*computeOptions)

// WithWorkers limits the number of goroutines computing bands. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(o *computeOptions) {
		o.workers = max(n, 1)
	}
}

// WithBandRows sets how many rows one goroutine computes between cancellation checks.
func WithBandRows(n int) Option {
	return func(o *computeOptions) {
		o.bandRows = max(n, 1)
	}
}

// ComputeEscapeGridContext computes the same grid as ComputeEscapeGrid,
// spreading row bands over a bounded set of goroutines.
// ctx is checked before each band is started.
func ComputeEscapeGridContext(ctx context.Context, width, height, maxIter int, r Region, opts ...Option) (*EscapeGrid, error) {
	if err := validateDims(width, height, maxIter); err != nil {
		return nil, err
	}
	o := defaultComputeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	g := NewEscapeGrid(width, height, maxIter)
	s := newSampler(width, height, r)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for _, b := range SplitBands(height, o.bandRows) {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// bands never overlap, each goroutine owns its slice of Counts
			s.fillRows(g.Counts[b.RowStart*width:b.RowEnd*width], maxIter, b.RowStart, b.RowEnd)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("compute escape grid: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compute escape grid: %w", err)
	}
	return g, nil
}

// RenderContext validates vp and computes its escape grid in parallel.
func RenderContext(ctx context.Context, vp Viewport, opts ...Option) (Result, error) {
	if err := vp.Validate(); err != nil {
		return Result{}, fmt.Errorf("viewport: %w", err)
	}
	r := vp.Bounds()
	g, err := ComputeEscapeGridContext(ctx, vp.Width, vp.Height, vp.MaxIter, r, opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Grid: g, Region: r}, nil
}
