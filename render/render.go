package render

import (
	"context"
	"fmt"

	mandel "github.com/marben/mandel_viewport"
)

// RendererImpl renders bands on the local CPU.
type RendererImpl struct {
	// OnBandRender is called before each band is computed, if set.
	OnBandRender func(job mandel.BandJob)
}

func (imp RendererImpl) RenderBand(ctx context.Context, job mandel.BandJob) (mandel.BandResult, error) {
	if err := ctx.Err(); err != nil {
		return mandel.BandResult{}, err
	}
	if imp.OnBandRender != nil {
		imp.OnBandRender(job)
	}
	res, err := mandel.ComputeBand(job)
	if err != nil {
		return mandel.BandResult{}, fmt.Errorf("band %d..%d: %w", job.Band.RowStart, job.Band.RowEnd, err)
	}
	return res, nil
}

var _ mandel.Renderer = RendererImpl{}
