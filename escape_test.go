package mandel

import (
	"context"
	"errors"
	"testing"
)

func TestLinspace(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		n           int
		want        []float64
	}{
		{"quarters", 0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"symmetric", -1.5, 1.5, 3, []float64{-1.5, 0, 1.5}},
		{"single", -2, 1, 1, []float64{-2}},
		{"degenerate", 0.5, 0.5, 4, []float64{0.5, 0.5, 0.5, 0.5}},
		{"empty", 0, 1, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linspace(tt.start, tt.stop, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("Linspace(%v, %v, %d) = %v, want %v", tt.start, tt.stop, tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Linspace(%v, %v, %d) = %v, want %v", tt.start, tt.stop, tt.n, got, tt.want)
				}
			}
		})
	}
}

func TestLinspaceEndpointsAndOrder(t *testing.T) {
	got := Linspace(-1.25, 0.25, 801)
	if got[0] != -1.25 || got[len(got)-1] != 0.25 {
		t.Fatalf("endpoints = %v, %v", got[0], got[len(got)-1])
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("samples not ascending at %d: %v <= %v", i, got[i], got[i-1])
		}
	}
}

func TestEscapeCount(t *testing.T) {
	tests := []struct {
		name    string
		c       complex128
		maxIter int
		want    int
	}{
		{"origin never escapes", 0, 100, 99},
		{"far right escapes at once", 3, 100, 0},
		{"one", 1, 100, 1},
		{"minus two touches the threshold", -2, 100, 0},
		{"period two", -1, 100, 99},
		{"imaginary unit is preperiodic", 1i, 50, 49},
		{"cusp", 0.25, 30, 29},
		{"single iteration budget", 0, 1, 0},
		{"single iteration outside", 5 + 5i, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeCount(tt.c, tt.maxIter); got != tt.want {
				t.Errorf("EscapeCount(%v, %d) = %d, want %d", tt.c, tt.maxIter, got, tt.want)
			}
		})
	}
}

// maskedEscapeGrid is the whole-array formulation: every iteration first
// computes which cells are still inside the threshold, then advances and
// stamps only those.
func maskedEscapeGrid(width, height, maxIter int, r Region) []int {
	reals := Linspace(r.Xmin, r.Xmax, width)
	imags := Linspace(r.Ymin, r.Ymax, height)

	n := width * height
	c := make([]complex128, n)
	z := make([]complex128, n)
	counts := make([]int, n)
	mask := make([]bool, n)
	for row := range height {
		for col := range width {
			c[row*width+col] = complex(reals[col], imags[row])
		}
	}

	for i := range maxIter {
		for k := range z {
			mask[k] = real(z[k])*real(z[k])+imag(z[k])*imag(z[k]) < 4
		}
		for k := range z {
			if mask[k] {
				z[k] = z[k]*z[k] + c[k]
			}
		}
		for k := range counts {
			if mask[k] {
				counts[k] = i
			}
		}
	}
	return counts
}

func TestEscapeGridMatchesMaskedFormulation(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxIter       int
		region        Region
	}{
		{"default view", 60, 40, 100, ComputeBounds(-0.5, 0, 1.5, 1.5, 1)},
		{"wide zoomed", 48, 27, 250, ComputeBounds(-0.75, 0.1, 1.5, 0.85, 4)},
		{"seahorse valley", 32, 32, 500, SeahorseValley},
		{"single column", 1, 17, 64, ComputeBounds(0, 0, 2, 2, 1)},
		{"tiny budget", 20, 20, 1, ComputeBounds(0, 0, 2, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ComputeEscapeGrid(tt.width, tt.height, tt.maxIter, tt.region)
			if err != nil {
				t.Fatal(err)
			}
			want := maskedEscapeGrid(tt.width, tt.height, tt.maxIter, tt.region)
			for k, got := range g.Counts {
				if got != want[k] {
					t.Fatalf("cell (%d, %d) = %d, masked formulation gives %d", k/tt.width, k%tt.width, got, want[k])
				}
			}
		})
	}
}

func TestEscapeGridShapeAndRange(t *testing.T) {
	g, err := ComputeEscapeGrid(10, 5, 100, ComputeBounds(-0.5, 0, 1.5, 1.5, 1))
	if err != nil {
		t.Fatal(err)
	}
	rows := g.Rows()
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	for i, row := range rows {
		if len(row) != 10 {
			t.Fatalf("row %d has %d columns, want 10", i, len(row))
		}
		for j, c := range row {
			if c < 0 || c > 99 {
				t.Errorf("count (%d, %d) = %d out of [0, 99]", i, j, c)
			}
		}
	}
	if lo, hi := g.MinMax(); lo < 0 || hi > 99 {
		t.Errorf("MinMax() = %d, %d", lo, hi)
	}
}

func TestEscapeGridOriginAndEscapee(t *testing.T) {
	// samples -1.5, 0, 1.5 on both axes
	g, err := ComputeEscapeGrid(3, 3, 100, ComputeBounds(0, 0, 1.5, 1.5, 1))
	if err != nil {
		t.Fatal(err)
	}
	if got := g.At(1, 1); got != 99 {
		t.Errorf("origin count = %d, want 99", got)
	}

	g, err = ComputeEscapeGrid(1, 1, 100, Region{Xmin: 3, Xmax: 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := g.At(0, 0); got != 0 {
		t.Errorf("(3, 0) count = %d, want 0", got)
	}
}

func TestEscapeGridAxisOrientation(t *testing.T) {
	// Real axis along columns: -2.5 escapes at once, 0 never does.
	g, err := ComputeEscapeGrid(2, 1, 20, Region{Xmin: -2.5, Xmax: 0})
	if err != nil {
		t.Fatal(err)
	}
	if g.At(0, 0) != 0 || g.At(0, 1) != 19 {
		t.Errorf("row = %v, want [0 19]", g.Row(0))
	}

	// Imaginary axis along rows: 0 never escapes, 2i escapes at once.
	g, err = ComputeEscapeGrid(1, 2, 20, Region{Ymin: 0, Ymax: 2})
	if err != nil {
		t.Fatal(err)
	}
	if g.At(0, 0) != 19 || g.At(1, 0) != 0 {
		t.Errorf("column = [%d %d], want [19 0]", g.At(0, 0), g.At(1, 0))
	}
}

func TestEscapeGridDegenerateBounds(t *testing.T) {
	g, err := ComputeEscapeGrid(4, 3, 30, Region{Xmin: -1, Xmax: -1, Ymin: 0, Ymax: 0})
	if err != nil {
		t.Fatal(err)
	}
	for k, c := range g.Counts {
		if c != 29 {
			t.Fatalf("cell %d = %d, want 29 everywhere", k, c)
		}
	}
}

func TestEscapeGridDeterministic(t *testing.T) {
	vp := Viewport{Width: 64, Height: 48, MaxIter: 300, CenterReal: -0.745, CenterImag: 0.11, XHalfRange: 1.5, YHalfRange: 1.125, Zoom: 7.5}
	a, err := Render(vp)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(vp)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Grid.Equal(b.Grid) {
		t.Fatalf("two renders of the same viewport differ")
	}
	if a.Region != vp.Bounds() {
		t.Errorf("Region = %+v, want %+v", a.Region, vp.Bounds())
	}
}

func TestComputeEscapeGridInvalidDimensions(t *testing.T) {
	tests := []struct {
		name                   string
		width, height, maxIter int
		field                  string
	}{
		{"width", 0, 5, 10, "width"},
		{"height", 5, -1, 10, "height"},
		{"max_iter", 5, 5, 0, "max_iter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ComputeEscapeGrid(tt.width, tt.height, tt.maxIter, Region{Xmin: -1, Xmax: 1, Ymin: -1, Ymax: 1})
			if !errors.Is(err, ErrInvalidDimension) {
				t.Fatalf("error = %v, want %v", err, ErrInvalidDimension)
			}
			var pe *ParamError
			if !errors.As(err, &pe) || pe.Field != tt.field {
				t.Errorf("error = %v, want field %q", err, tt.field)
			}
			if g != nil {
				t.Errorf("grid returned alongside an error")
			}
		})
	}
}

func TestComputeEscapeGridContextMatchesSerial(t *testing.T) {
	r := ComputeBounds(-0.5, 0, 1.5, 1.125, 1.3)
	want, err := ComputeEscapeGrid(73, 41, 120, r)
	if err != nil {
		t.Fatal(err)
	}
	for _, opts := range [][]Option{
		nil,
		{WithWorkers(1)},
		{WithWorkers(3), WithBandRows(1)},
		{WithWorkers(8), WithBandRows(7)},
		{WithWorkers(0), WithBandRows(1000)},
	} {
		got, err := ComputeEscapeGridContext(context.Background(), 73, 41, 120, r, opts...)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Fatalf("parallel grid differs from serial grid with %d options", len(opts))
		}
	}
}

func TestComputeEscapeGridContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, err := ComputeEscapeGridContext(ctx, 100, 100, 100, ComputeBounds(0, 0, 2, 2, 1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want %v", err, context.Canceled)
	}
	if g != nil {
		t.Errorf("grid returned for a canceled computation")
	}
}

func TestRenderContext(t *testing.T) {
	vp := validViewport()
	want, err := Render(vp)
	if err != nil {
		t.Fatal(err)
	}
	got, err := RenderContext(context.Background(), vp, WithWorkers(4), WithBandRows(3))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Grid.Equal(want.Grid) || got.Region != want.Region {
		t.Fatalf("RenderContext differs from Render")
	}

	vp.Width = 0
	if _, err := RenderContext(context.Background(), vp); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidDimension)
	}
}
