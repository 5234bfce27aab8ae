package mandel

import (
	"math"
	"sort"
)

// Region within the complex plane.
// Xmin/Xmax bound the real axis, Ymin/Ymax the imaginary axis.
type Region struct {
	Xmin float64 `json:"xmin"`
	Xmax float64 `json:"xmax"`
	Ymin float64 `json:"ymin"`
	Ymax float64 `json:"ymax"`
}

// Width of the region along the real axis.
func (r Region) Width() float64 { return r.Xmax - r.Xmin }

// Height of the region along the imaginary axis.
func (r Region) Height() float64 { return r.Ymax - r.Ymin }

// Center returns the midpoint of the region.
func (r Region) Center() complex128 {
	return complex((r.Xmin+r.Xmax)/2, (r.Ymin+r.Ymax)/2)
}

// Viewport is the parameter record of one render request.
// It is constructed fresh for every request and never mutated afterwards.
type Viewport struct {
	Width   int // pixel columns
	Height  int // pixel rows
	MaxIter int // iteration budget

	CenterReal float64
	CenterImag float64
	XHalfRange float64
	YHalfRange float64
	Zoom       float64
}

// Validate reports the first parameter that breaks the viewport invariants.
// The returned error is a *ParamError wrapping one of ErrInvalidDimension,
// ErrDegenerateZoom or ErrInvalidExtent.
func (vp Viewport) Validate() error {
	if err := validateDims(vp.Width, vp.Height, vp.MaxIter); err != nil {
		return err
	}
	if !(vp.Zoom > 0) || math.IsInf(vp.Zoom, 0) {
		return &ParamError{Field: "zoom", Value: vp.Zoom, Err: ErrDegenerateZoom}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"x_half_range", vp.XHalfRange},
		{"y_half_range", vp.YHalfRange},
	} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return &ParamError{Field: f.name, Value: f.v, Err: ErrInvalidExtent}
		}
	}
	if !isFinite(vp.CenterReal) {
		return &ParamError{Field: "center_real", Value: vp.CenterReal, Err: ErrInvalidExtent}
	}
	if !isFinite(vp.CenterImag) {
		return &ParamError{Field: "center_imag", Value: vp.CenterImag, Err: ErrInvalidExtent}
	}
	return nil
}

// Bounds maps the viewport onto the complex plane.
func (vp Viewport) Bounds() Region {
	return ComputeBounds(vp.CenterReal, vp.CenterImag, vp.XHalfRange, vp.YHalfRange, vp.Zoom)
}

// ComputeBounds shrinks the half extents by zoom around the center.
// zoom must be positive, callers reject anything else first.
func ComputeBounds(centerReal, centerImag, xHalfRange, yHalfRange, zoom float64) Region {
	dx := xHalfRange / zoom
	dy := yHalfRange / zoom
	return Region{
		Xmin: centerReal - dx,
		Xmax: centerReal + dx,
		Ymin: centerImag - dy,
		Ymax: centerImag + dy,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Named regions worth a closer look.
var (
	// between the main cardioid and the period-2 bulb
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// on the antenna left of the period-2 bulb
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// minibrot on the real axis spike
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var landmarks = map[string]Region{
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// Landmarks lists the names accepted by LandmarkViewport.
func Landmarks() []string {
	names := make([]string, 0, len(landmarks))
	for n := range landmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LandmarkViewport returns a unit-zoom viewport centred on the named landmark
// with half ranges spanning it.
func LandmarkViewport(name string, width, height, maxIter int) (Viewport, bool) {
	r, ok := landmarks[name]
	if !ok {
		return Viewport{}, false
	}
	c := r.Center()
	return Viewport{
		Width:      width,
		Height:     height,
		MaxIter:    maxIter,
		CenterReal: real(c),
		CenterImag: imag(c),
		XHalfRange: r.Width() / 2,
		YHalfRange: r.Height() / 2,
		Zoom:       1,
	}, true
}
