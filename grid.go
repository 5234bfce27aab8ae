package mandel

import "fmt"

// EscapeGrid is a Height x Width matrix of escape counts stored row-major.
// Row index ascends along the imaginary axis, column index along the real axis.
// The grid belongs to the caller once returned.
type EscapeGrid struct {
	Width   int
	Height  int
	MaxIter int
	Counts  []int
}

// NewEscapeGrid allocates a zeroed grid to be filled band by band with SetBand.
func NewEscapeGrid(width, height, maxIter int) *EscapeGrid {
	return &EscapeGrid{
		Width:   width,
		Height:  height,
		MaxIter: maxIter,
		Counts:  make([]int, width*height),
	}
}

// At returns the count at row, col.
func (g *EscapeGrid) At(row, col int) int {
	return g.Counts[row*g.Width+col]
}

// Row returns a view of one row. Writes through it modify the grid.
func (g *EscapeGrid) Row(row int) []int {
	return g.Counts[row*g.Width : (row+1)*g.Width : (row+1)*g.Width]
}

// Rows returns the grid as a slice of row views.
func (g *EscapeGrid) Rows() [][]int {
	rows := make([][]int, g.Height)
	for i := range rows {
		rows[i] = g.Row(i)
	}
	return rows
}

// MinMax returns the smallest and largest count.
func (g *EscapeGrid) MinMax() (lo, hi int) {
	if len(g.Counts) == 0 {
		return 0, 0
	}
	lo, hi = g.Counts[0], g.Counts[0]
	for _, c := range g.Counts[1:] {
		lo = min(lo, c)
		hi = max(hi, c)
	}
	return lo, hi
}

// Equal reports whether both grids have the same shape, budget and counts.
func (g *EscapeGrid) Equal(o *EscapeGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.Width != o.Width || g.Height != o.Height || g.MaxIter != o.MaxIter || len(g.Counts) != len(o.Counts) {
		return false
	}
	for i, c := range g.Counts {
		if o.Counts[i] != c {
			return false
		}
	}
	return true
}

// SetBand copies a band result into the grid.
func (g *EscapeGrid) SetBand(res BandResult) error {
	b := res.Band
	if b.RowStart < 0 || b.RowEnd > g.Height || b.RowStart >= b.RowEnd {
		return fmt.Errorf("band %d..%d of %d rows: %w", b.RowStart, b.RowEnd, g.Height, ErrBandMismatch)
	}
	if len(res.Counts) != b.Rows()*g.Width {
		return fmt.Errorf("band %d..%d: %d counts for width %d: %w", b.RowStart, b.RowEnd, len(res.Counts), g.Width, ErrBandMismatch)
	}
	copy(g.Counts[b.RowStart*g.Width:b.RowEnd*g.Width], res.Counts)
	return nil
}
