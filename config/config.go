// Package config holds the viewer parameters: defaults, the ranges the
// presentation layer accepts, and the parameter,value flat file they persist to.
package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	mandel "github.com/marben/mandel_viewport"
	"github.com/marben/mandel_viewport/render"
)

// Aspect ratio presets.
const (
	AspectSquare  = "1:1 (Square)"
	AspectWide    = "16:9 (Wide)"
	AspectClassic = "4:3 (Classic)"
)

// HalfRanges are the real and imaginary half extents of an aspect preset at zoom 1.
type HalfRanges struct {
	X, Y float64
}

var aspectRatios = map[string]HalfRanges{
	AspectSquare:  {X: 1.5, Y: 1.5},
	AspectWide:    {X: 1.5, Y: 0.85},
	AspectClassic: {X: 1.5, Y: 1.125},
}

// AspectRatios lists the presets in display order.
func AspectRatios() []string {
	return []string{AspectSquare, AspectWide, AspectClassic}
}

// LookupAspectRatio returns the half ranges of a preset.
func LookupAspectRatio(name string) (HalfRanges, bool) {
	hr, ok := aspectRatios[name]
	return hr, ok
}

// Params is the full parameter record of the viewer.
type Params struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	MaxIter     int     `json:"max_iter"`
	AspectRatio string  `json:"aspect_ratio"`
	CenterReal  float64 `json:"center_real"`
	CenterImag  float64 `json:"center_imag"`
	Zoom        float64 `json:"zoom"`
	Colormap    string  `json:"colormap"`
}

// Defaults returns the parameters used when nothing else is configured.
func Defaults() Params {
	return Params{
		Width:       800,
		Height:      800,
		MaxIter:     100,
		AspectRatio: AspectSquare,
		CenterReal:  -0.5,
		CenterImag:  0,
		Zoom:        1,
		Colormap:    render.DefaultColormap,
	}
}

// Accepted ranges, inclusive.
const (
	MinSize, MaxSize             = 100, 2000
	MinMaxIter, MaxMaxIter       = 10, 1000
	MinCenterReal, MaxCenterReal = -2.0, 1.0
	MinCenterImag, MaxCenterImag = -1.5, 1.5
	MinZoom, MaxZoom             = 1.0, 10.0
)

// ErrOutOfRange is wrapped by every RangeError.
var ErrOutOfRange = errors.New("out of range")

// RangeError reports a parameter outside what the viewer accepts.
type RangeError struct {
	Param string
	Value string
	Want  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s = %s: want %s", e.Param, e.Value, e.Want)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

func intRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &RangeError{Param: name, Value: strconv.Itoa(v), Want: fmt.Sprintf("[%d, %d]", lo, hi)}
	}
	return nil
}

func floatRange(name string, v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return &RangeError{Param: name, Value: formatFloat(v), Want: fmt.Sprintf("[%g, %g]", lo, hi)}
	}
	return nil
}

// Validate checks every parameter against the accepted ranges and names.
func (p Params) Validate() error {
	return errors.Join(
		intRange(keyWidth, p.Width, MinSize, MaxSize),
		intRange(keyHeight, p.Height, MinSize, MaxSize),
		intRange(keyMaxIter, p.MaxIter, MinMaxIter, MaxMaxIter),
		floatRange(keyCenterReal, p.CenterReal, MinCenterReal, MaxCenterReal),
		floatRange(keyCenterImag, p.CenterImag, MinCenterImag, MaxCenterImag),
		floatRange(keyZoom, p.Zoom, MinZoom, MaxZoom),
		oneOf(keyAspectRatio, p.AspectRatio, AspectRatios()),
		oneOf(keyColormap, p.Colormap, render.ColormapNames()),
	)
}

func oneOf(name, v string, allowed []string) error {
	if !slices.Contains(allowed, v) {
		return &RangeError{Param: name, Value: strconv.Quote(v), Want: "one of " + strings.Join(allowed, ", ")}
	}
	return nil
}

// Viewport validates p and converts it into the kernel's parameter record.
func (p Params) Viewport() (mandel.Viewport, error) {
	if err := p.Validate(); err != nil {
		return mandel.Viewport{}, err
	}
	hr := aspectRatios[p.AspectRatio]
	return mandel.Viewport{
		Width:      p.Width,
		Height:     p.Height,
		MaxIter:    p.MaxIter,
		CenterReal: p.CenterReal,
		CenterImag: p.CenterImag,
		XHalfRange: hr.X,
		YHalfRange: hr.Y,
		Zoom:       p.Zoom,
	}, nil
}

// Parameter names in the flat file.
const (
	keyWidth       = "width"
	keyHeight      = "height"
	keyMaxIter     = "max_iter"
	keyAspectRatio = "aspect_ratio"
	keyCenterReal  = "center_real"
	keyCenterImag  = "center_imag"
	keyZoom        = "zoom"
	keyColormap    = "colormap"
)

// Keys lists the parameter names in file order.
func Keys() []string {
	return []string{keyWidth, keyHeight, keyMaxIter, keyAspectRatio, keyCenterReal, keyCenterImag, keyZoom, keyColormap}
}

// Set parses value into the named parameter.
func (p *Params) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var err error
	switch key {
	case keyWidth:
		p.Width, err = parseInt(value)
	case keyHeight:
		p.Height, err = parseInt(value)
	case keyMaxIter:
		p.MaxIter, err = parseInt(value)
	case keyAspectRatio:
		p.AspectRatio = value
	case keyCenterReal:
		p.CenterReal, err = strconv.ParseFloat(value, 64)
	case keyCenterImag:
		p.CenterImag, err = strconv.ParseFloat(value, 64)
	case keyZoom:
		p.Zoom, err = strconv.ParseFloat(value, 64)
	case keyColormap:
		p.Colormap = value
	default:
		return fmt.Errorf("unknown parameter %q", key)
	}
	if err != nil {
		return fmt.Errorf("parameter %s: %w", key, err)
	}
	return nil
}

// parseInt accepts "800" as well as "800.0".
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}

// Get formats the named parameter.
func (p Params) Get(key string) (string, bool) {
	switch key {
	case keyWidth:
		return strconv.Itoa(p.Width), true
	case keyHeight:
		return strconv.Itoa(p.Height), true
	case keyMaxIter:
		return strconv.Itoa(p.MaxIter), true
	case keyAspectRatio:
		return p.AspectRatio, true
	case keyCenterReal:
		return formatFloat(p.CenterReal), true
	case keyCenterImag:
		return formatFloat(p.CenterImag), true
	case keyZoom:
		return formatFloat(p.Zoom), true
	case keyColormap:
		return p.Colormap, true
	}
	return "", false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ReadCSV reads a parameter,value file on top of Defaults.
// Parameters missing from the file keep their default.
func ReadCSV(r io.Reader) (Params, error) {
	p := Defaults()
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Params{}, fmt.Errorf("read header: %w", err)
	}
	if header[0] != "parameter" || header[1] != "value" {
		return Params{}, fmt.Errorf("header %q: want parameter,value", header)
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Params{}, fmt.Errorf("read record: %w", err)
		}
		if err := p.Set(strings.TrimSpace(rec[0]), rec[1]); err != nil {
			return Params{}, err
		}
	}
	return p, nil
}

// LoadCSV reads the parameter file at path.
func LoadCSV(path string) (Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return Params{}, fmt.Errorf("parameter file: %w", err)
	}
	defer f.Close()

	p, err := ReadCSV(f)
	if err != nil {
		return Params{}, fmt.Errorf("parameter file %q: %w", path, err)
	}
	return p, nil
}

// WriteCSV writes p as a parameter,value file.
func WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"parameter", "value"}); err != nil {
		return err
	}
	for _, k := range Keys() {
		v, _ := p.Get(k)
		if err := cw.Write([]string{k, v}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes p to the file at path.
func SaveCSV(path string, p Params) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parameter file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("parameter file %q: %w", path, cerr)
		}
	}()
	if err := WriteCSV(f, p); err != nil {
		return fmt.Errorf("parameter file %q: %w", path, err)
	}
	return nil
}
