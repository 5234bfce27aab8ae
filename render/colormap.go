package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/gogpu/gg"
)

// DefaultColormap is used when no colormap is configured.
const DefaultColormap = "coolwarm"

// Colormap maps [0, 1] onto evenly spaced colour stops with linear interpolation.
type Colormap struct {
	Name  string
	stops []gg.RGBA
}

func newColormap(name string, hex ...string) Colormap {
	stops := make([]gg.RGBA, len(hex))
	for i, h := range hex {
		stops[i] = gg.Hex(h)
	}
	return Colormap{Name: name, stops: stops}
}

var colormaps = map[string]Colormap{
	"coolwarm": newColormap("coolwarm",
		"#3b4cc0", "#6788ee", "#9abbff", "#c9d7f0", "#edd1c2", "#f7a889", "#e26952", "#b40426"),
	"viridis": newColormap("viridis",
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"),
	"magma": newColormap("magma",
		"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a", "#e55964", "#fb8761", "#fec287", "#fcfdbf"),
	"inferno": newColormap("inferno",
		"#000004", "#1f0c48", "#550f6d", "#88226a", "#ba3655", "#e35933", "#f98e09", "#f9cb35", "#fcffa4"),
	"plasma": newColormap("plasma",
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"),
	"gray": newColormap("gray", "#000000", "#ffffff"),
	// the 16 colour gradient of the Wikipedia Mandelbrot renderings
	"wikipedia": newColormap("wikipedia",
		"#421e0f", "#19071a", "#09012f", "#040449", "#000764", "#0c2c8a", "#1852b1", "#397dd1",
		"#86b5e5", "#d3ecf8", "#f1e9bf", "#f8c95f", "#ffaa00", "#cc8000", "#995700", "#6a3403"),
}

// LookupColormap returns the named colormap.
func LookupColormap(name string) (Colormap, error) {
	c, ok := colormaps[name]
	if !ok {
		return Colormap{}, fmt.Errorf("unknown colormap %q", name)
	}
	return c, nil
}

// ColormapNames lists the known colormaps.
func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for n := range colormaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// At returns the colour at t, clamped to [0, 1].
func (c Colormap) At(t float64) gg.RGBA {
	if len(c.stops) == 0 {
		return gg.RGB(0, 0, 0)
	}
	if len(c.stops) == 1 || t <= 0 || math.IsNaN(t) {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}
	pos := t * float64(len(c.stops)-1)
	i := int(pos)
	return c.stops[i].Lerp(c.stops[i+1], pos-float64(i))
}

// NRGBA is At converted for image.NRGBA.
func (c Colormap) NRGBA(t float64) color.NRGBA {
	return color.NRGBAModel.Convert(c.At(t).Color()).(color.NRGBA)
}
