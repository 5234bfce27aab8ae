package mandel

import "fmt"

// SplitBands splits [0, height) into bands of rows rows.
// The last band is shorter if height is not divisible.
func SplitBands(height, rows int) []Band {
	if rows <= 0 {
		panic("band rows must be positive")
	}

	var bands []Band
	for start := 0; start < height; start += rows {
		end := start + rows
		if end > height {
			end = height
		}
		bands = append(bands, Band{RowStart: start, RowEnd: end})
	}
	return bands
}

// ComputeBand computes the rows of job.Band.
// Samples are taken over the whole grid, so stitched bands equal ComputeEscapeGrid.
func ComputeBand(job BandJob) (BandResult, error) {
	if err := validateDims(job.Width, job.Height, job.MaxIter); err != nil {
		return BandResult{}, err
	}
	b := job.Band
	if b.RowStart < 0 || b.RowEnd > job.Height || b.RowStart >= b.RowEnd {
		return BandResult{}, fmt.Errorf("band %d..%d of %d rows: %w", b.RowStart, b.RowEnd, job.Height, ErrBandMismatch)
	}

	counts := make([]int, b.Rows()*job.Width)
	s := newSampler(job.Width, job.Height, job.Region)
	s.fillRows(counts, job.MaxIter, b.RowStart, b.RowEnd)
	return BandResult{Band: b, Counts: counts}, nil
}
