// Package plot draws an escape grid as a titled figure with axes and a colour bar.
package plot

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	mandel "github.com/marben/mandel_viewport"
	"github.com/marben/mandel_viewport/render"
)

// Options of a figure. Zero values fall back to DefaultOptions.
type Options struct {
	Width, Height int // figure size in pixels
	Colormap      render.Colormap
	Title         string
}

// DefaultOptions returns an 800x800 figure in the default colormap.
func DefaultOptions() Options {
	cmap, _ := render.LookupColormap(render.DefaultColormap)
	return Options{
		Width:    800,
		Height:   800,
		Colormap: cmap,
		Title:    "Mandelbrot Set",
	}
}

const (
	marginLeft   = 80
	marginRight  = 130
	marginTop    = 80
	marginBottom = 64

	colorbarGap   = 24
	colorbarWidth = 20
	ticks         = 5
)

var fontSource = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Colormap.Name == "" {
		o.Colormap = d.Colormap
	}
	if o.Title == "" {
		o.Title = d.Title
	}
	return o
}

// Figure draws res, computed for vp, and returns the image.
func Figure(res mandel.Result, vp mandel.Viewport, opts Options) (image.Image, error) {
	dc, err := draw(res, vp, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// WritePNG draws the figure and encodes it to w.
func WritePNG(w io.Writer, res mandel.Result, vp mandel.Viewport, opts Options) error {
	dc, err := draw(res, vp, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG draws the figure into the file at path.
func SavePNG(path string, res mandel.Result, vp mandel.Viewport, opts Options) error {
	dc, err := draw(res, vp, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	return nil
}

func draw(res mandel.Result, vp mandel.Viewport, opts Options) (*gg.Context, error) {
	if res.Grid == nil {
		return nil, fmt.Errorf("plot: nil grid")
	}
	opts = opts.withDefaults()
	pw := float64(opts.Width - marginLeft - marginRight)
	ph := float64(opts.Height - marginTop - marginBottom)
	if pw < 1 || ph < 1 {
		return nil, fmt.Errorf("plot: figure %dx%d leaves no room for the plot", opts.Width, opts.Height)
	}
	src, err := fontSource()
	if err != nil {
		return nil, fmt.Errorf("plot: load font: %w", err)
	}
	label := src.Face(13)
	title := src.Face(18)

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(gg.White)

	// plot area
	dc.DrawImageEx(gg.ImageBufFromImage(render.Colorize(res.Grid, opts.Colormap)), gg.DrawImageOptions{
		X:         marginLeft,
		Y:         marginTop,
		DstWidth:  pw,
		DstHeight: ph,
	})
	dc.SetColor(gg.Black.Color())
	dc.SetLineWidth(1)
	dc.DrawRectangle(marginLeft, marginTop, pw, ph)
	if err := dc.Stroke(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("plot: frame: %w", err)
	}

	// axes
	r := res.Region
	dc.SetFont(label)
	for i := range ticks {
		f := float64(i) / (ticks - 1)

		x := marginLeft + f*pw
		dc.DrawLine(x, marginTop+ph, x, marginTop+ph+5)
		dc.DrawStringAnchored(formatTick(r.Xmin+f*r.Width()), x, marginTop+ph+8, 0.5, 1)

		y := marginTop + ph - f*ph
		dc.DrawLine(marginLeft-5, y, marginLeft, y)
		dc.DrawStringAnchored(formatTick(r.Ymin+f*r.Height()), marginLeft-8, y, 1, 0.35)
	}
	if err := dc.Stroke(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("plot: ticks: %w", err)
	}
	dc.DrawStringAnchored("Real Part", marginLeft+pw/2, float64(opts.Height)-14, 0.5, 0)
	dc.DrawStringAnchored("Imaginary Part", marginLeft, marginTop-10, 0, 0)

	// title
	dc.SetFont(title)
	dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, 28, 0.5, 0)
	dc.SetFont(label)
	dc.DrawStringAnchored(
		fmt.Sprintf("Center: (%s, %s), Zoom: %sx", formatValue(vp.CenterReal), formatValue(vp.CenterImag), formatValue(vp.Zoom)),
		float64(opts.Width)/2, 50, 0.5, 0)

	if err := drawColorbar(dc, res.Grid, opts.Colormap, marginLeft+pw+colorbarGap, ph); err != nil {
		dc.Close()
		return nil, err
	}
	return dc, nil
}

// drawColorbar draws a vertical gradient for the grid's count range at x.
func drawColorbar(dc *gg.Context, g *mandel.EscapeGrid, cmap render.Colormap, x, h float64) error {
	const steps = 256
	bar := image.NewNRGBA(image.Rect(0, 0, 1, steps))
	for i := range steps {
		bar.SetNRGBA(0, i, cmap.NRGBA(1-float64(i)/(steps-1)))
	}
	dc.DrawImageEx(gg.ImageBufFromImage(bar), gg.DrawImageOptions{
		X:         x,
		Y:         marginTop,
		DstWidth:  colorbarWidth,
		DstHeight: h,
	})
	dc.SetColor(gg.Black.Color())
	dc.DrawRectangle(x, marginTop, colorbarWidth, h)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("plot: colorbar: %w", err)
	}

	lo, hi := g.MinMax()
	dc.DrawStringAnchored(strconv.Itoa(hi), x+colorbarWidth+6, marginTop, 0, 0.35)
	dc.DrawStringAnchored(strconv.Itoa((lo+hi)/2), x+colorbarWidth+6, marginTop+h/2, 0, 0.35)
	dc.DrawStringAnchored(strconv.Itoa(lo), x+colorbarWidth+6, marginTop+h, 0, 0.35)
	dc.DrawStringAnchored("Iterations", x, marginTop-10, 0, 0)
	return nil
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
