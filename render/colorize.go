package render

import (
	"image"

	mandel "github.com/marben/mandel_viewport"
)

// Colorize paints the grid with cmap, scaling counts between the grid's
// smallest and largest value. Row 0 (lowest imaginary sample) is drawn on the
// bottom line of the image so the imaginary axis points up.
func Colorize(g *mandel.EscapeGrid, cmap Colormap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	lo, hi := g.MinMax()
	span := float64(hi - lo)

	// one colormap lookup per distinct count
	cache := make(map[int][4]uint8)

	for row := 0; row < g.Height; row++ {
		y := g.Height - 1 - row
		line := img.Pix[y*img.Stride : y*img.Stride+4*g.Width]
		for col, c := range g.Row(row) {
			px, ok := cache[c]
			if !ok {
				t := 0.0
				if span > 0 {
					t = float64(c-lo) / span
				}
				nc := cmap.NRGBA(t)
				px = [4]uint8{nc.R, nc.G, nc.B, nc.A}
				cache[c] = px
			}
			copy(line[4*col:4*col+4], px[:])
		}
	}
	return img
}
