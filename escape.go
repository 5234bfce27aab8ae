package mandel

import "fmt"

// Result of a render request: the grid and the plane region it samples.
type Result struct {
	Grid   *EscapeGrid
	Region Region
}

// Linspace returns n evenly spaced samples over [start, stop].
// Both endpoints are included; the last sample is exactly stop.
// A single sample is start.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = float64(i)*step + start
	}
	out[n-1] = stop
	return out
}

// EscapeCount iterates z = z*z + c from zero.
// The count is the index of the last iteration that started with |z| < 2,
// so a point that never escapes within maxIter iterations yields maxIter-1.
func EscapeCount(c complex128, maxIter int) int {
	var z complex128
	count := 0
	for i := range maxIter {
		if real(z)*real(z)+imag(z)*imag(z) >= 4 {
			break
		}
		z = z*z + c
		count = i
	}
	return count
}

// ComputeEscapeGrid samples r at width x height points and records the escape count of each.
func ComputeEscapeGrid(width, height, maxIter int, r Region) (*EscapeGrid, error) {
	if err := validateDims(width, height, maxIter); err != nil {
		return nil, err
	}
	g := NewEscapeGrid(width, height, maxIter)
	s := newSampler(width, height, r)
	s.fillRows(g.Counts, maxIter, 0, height)
	return g, nil
}

// Render validates vp and computes its escape grid serially.
func Render(vp Viewport) (Result, error) {
	if err := vp.Validate(); err != nil {
		return Result{}, fmt.Errorf("viewport: %w", err)
	}
	r := vp.Bounds()
	g, err := ComputeEscapeGrid(vp.Width, vp.Height, vp.MaxIter, r)
	if err != nil {
		return Result{}, err
	}
	return Result{Grid: g, Region: r}, nil
}

// sampler holds the axis samples of a full grid.
type sampler struct {
	reals []float64
	imags []float64
}

func newSampler(width, height int, r Region) sampler {
	return sampler{
		reals: Linspace(r.Xmin, r.Xmax, width),
		imags: Linspace(r.Ymin, r.Ymax, height),
	}
}

// fillRows writes rows [r0, r1) into dst, which starts at row r0.
func (s sampler) fillRows(dst []int, maxIter, r0, r1 int) {
	w := len(s.reals)
	for row := r0; row < r1; row++ {
		im := s.imags[row]
		line := dst[(row-r0)*w : (row-r0+1)*w]
		for col, re := range s.reals {
			line[col] = EscapeCount(complex(re, im), maxIter)
		}
	}
}
