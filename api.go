package mandel

import "context"

// GridProvider hands out the escape grid of the current render job once it is complete.
type GridProvider interface {
	GetGrid(ctx context.Context) (Result, error)
}

// Renderer computes one band of rows of an escape grid.
// Implementations may be local or proxies to a remote worker.
type Renderer interface {
	RenderBand(ctx context.Context, job BandJob) (BandResult, error)
}

// Band is the half-open row range [RowStart, RowEnd) of a grid.
type Band struct {
	RowStart int `json:"row_start"`
	RowEnd   int `json:"row_end"`
}

// Rows in the band.
func (b Band) Rows() int { return b.RowEnd - b.RowStart }

// BandJob describes a band of the grid sampled over Region at Width x Height.
type BandJob struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	MaxIter int    `json:"max_iter"`
	Region  Region `json:"region"`
	Band    Band   `json:"band"`
}

// BandResult carries the counts of a band, row-major, Band.Rows()*Width values.
type BandResult struct {
	Band   Band  `json:"band"`
	Counts []int `json:"counts"`
}
