package render

import (
	"context"
	"errors"
	"image/color"
	"testing"

	mandel "github.com/marben/mandel_viewport"
)

func TestLookupColormap(t *testing.T) {
	for _, name := range ColormapNames() {
		c, err := LookupColormap(name)
		if err != nil {
			t.Fatalf("LookupColormap(%q): %v", name, err)
		}
		if c.Name != name {
			t.Errorf("LookupColormap(%q).Name = %q", name, c.Name)
		}
	}
	if _, err := LookupColormap(DefaultColormap); err != nil {
		t.Fatalf("default colormap missing: %v", err)
	}
	if _, err := LookupColormap("jet"); err == nil {
		t.Errorf("unknown colormap accepted")
	}
}

func TestColormapAt(t *testing.T) {
	gray, err := LookupColormap("gray")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		t    float64
		want color.NRGBA
	}{
		{-1, color.NRGBA{0, 0, 0, 255}},
		{0, color.NRGBA{0, 0, 0, 255}},
		{1, color.NRGBA{255, 255, 255, 255}},
		{2, color.NRGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := gray.NRGBA(tt.t); got != tt.want {
			t.Errorf("gray.NRGBA(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
	mid := gray.At(0.5)
	if mid.R < 0.49 || mid.R > 0.51 || mid.R != mid.G || mid.G != mid.B {
		t.Errorf("gray.At(0.5) = %+v", mid)
	}
}

func TestColorizeOrientationAndScaling(t *testing.T) {
	gray, err := LookupColormap("gray")
	if err != nil {
		t.Fatal(err)
	}
	g := mandel.NewEscapeGrid(2, 2, 10)
	// row 0 is the lowest imaginary sample
	copy(g.Counts, []int{
		2, 4,
		6, 2,
	})
	img := Colorize(g, gray)
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds = %v", b)
	}
	black := color.NRGBA{0, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}
	if got := img.NRGBAAt(0, 1); got != black {
		t.Errorf("row 0 col 0 (min) drawn at bottom-left = %v, want %v", got, black)
	}
	if got := img.NRGBAAt(0, 0); got != white {
		t.Errorf("row 1 col 0 (max) drawn at top-left = %v, want %v", got, white)
	}
	if got := img.NRGBAAt(1, 0); got != black {
		t.Errorf("row 1 col 1 (min) = %v, want %v", got, black)
	}
	if got := img.NRGBAAt(1, 1); got.R == 0 || got.R == 255 {
		t.Errorf("row 0 col 1 (middle) = %v, want a grey", got)
	}
}

func TestColorizeFlatGrid(t *testing.T) {
	gray, err := LookupColormap("gray")
	if err != nil {
		t.Fatal(err)
	}
	g := mandel.NewEscapeGrid(3, 1, 10)
	img := Colorize(g, gray)
	for x := range 3 {
		if got := img.NRGBAAt(x, 0); got != (color.NRGBA{0, 0, 0, 255}) {
			t.Errorf("pixel %d = %v", x, got)
		}
	}
}

func TestRendererImpl(t *testing.T) {
	var seen []mandel.Band
	r := RendererImpl{OnBandRender: func(job mandel.BandJob) { seen = append(seen, job.Band) }}

	job := mandel.BandJob{
		Width:   16,
		Height:  8,
		MaxIter: 40,
		Region:  mandel.ComputeBounds(-0.5, 0, 1.5, 1.5, 1),
		Band:    mandel.Band{RowStart: 2, RowEnd: 5},
	}
	res, err := r.RenderBand(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	want, err := mandel.ComputeBand(job)
	if err != nil {
		t.Fatal(err)
	}
	if res.Band != job.Band || len(res.Counts) != len(want.Counts) {
		t.Fatalf("RenderBand() = %v with %d counts", res.Band, len(res.Counts))
	}
	for i := range res.Counts {
		if res.Counts[i] != want.Counts[i] {
			t.Fatalf("count %d = %d, want %d", i, res.Counts[i], want.Counts[i])
		}
	}
	if len(seen) != 1 || seen[0] != job.Band {
		t.Errorf("OnBandRender saw %v", seen)
	}

	job.Band = mandel.Band{RowStart: 6, RowEnd: 9}
	if _, err := r.RenderBand(context.Background(), job); !errors.Is(err, mandel.ErrBandMismatch) {
		t.Errorf("error = %v, want %v", err, mandel.ErrBandMismatch)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RenderBand(ctx, job); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}
