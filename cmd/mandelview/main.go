// mandelview renders one Mandelbrot figure on the local machine.
//
// Parameters start from the defaults, or from the file given with -params,
// and every parameter flag that is set overrides them:
//
//	mandelview -params parameter.csv -zoom 4 -colormap magma -out zoomed.png
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	mandel "github.com/marben/mandel_viewport"
	"github.com/marben/mandel_viewport/config"
	"github.com/marben/mandel_viewport/plot"
	"github.com/marben/mandel_viewport/render"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type options struct {
	params     config.Params
	landmark   string
	workers    int
	out        string
	saveParams string
	grid       string
}

// flagName maps a parameter key to its flag, max_iter to -max-iter.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("mandelview", flag.ContinueOnError)
	paramsPath := fs.String("params", "", "parameter file, defaults if empty")
	landmark := fs.String("landmark", "", "render a named region instead of center and zoom: "+strings.Join(mandel.Landmarks(), ", "))
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "number of goroutines computing bands")
	out := fs.String("out", "mandelbrot.png", "figure file")
	saveParams := fs.String("save-params", "", "write the effective parameters to this file")
	grid := fs.String("grid", "", "write the escape counts as CSV to this file")

	defaults := config.Defaults()
	keys := make(map[string]string)
	for _, key := range config.Keys() {
		v, _ := defaults.Get(key)
		keys[flagName(key)] = key
		fs.String(flagName(key), v, key+" parameter")
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	p := defaults
	if *paramsPath != "" {
		var err error
		if p, err = config.LoadCSV(*paramsPath); err != nil {
			return options{}, err
		}
	}
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if key, ok := keys[f.Name]; ok {
			setErr = errors.Join(setErr, p.Set(key, f.Value.String()))
		}
	})
	if setErr != nil {
		return options{}, setErr
	}

	return options{
		params:     p,
		landmark:   *landmark,
		workers:    *workers,
		out:        *out,
		saveParams: *saveParams,
		grid:       *grid,
	}, nil
}

func (o options) viewport() (mandel.Viewport, error) {
	if o.landmark == "" {
		return o.params.Viewport()
	}
	if err := o.params.Validate(); err != nil {
		return mandel.Viewport{}, err
	}
	vp, ok := mandel.LandmarkViewport(o.landmark, o.params.Width, o.params.Height, o.params.MaxIter)
	if !ok {
		return mandel.Viewport{}, fmt.Errorf("unknown landmark %q, want one of %s", o.landmark, strings.Join(mandel.Landmarks(), ", "))
	}
	return vp, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	vp, err := opts.viewport()
	if err != nil {
		return err
	}
	cmap, err := render.LookupColormap(opts.params.Colormap)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("rendering %dx%d, %d iterations on %d workers", vp.Width, vp.Height, vp.MaxIter, opts.workers)
	res, err := mandel.RenderContext(ctx, vp, mandel.WithWorkers(opts.workers))
	if err != nil {
		return err
	}

	if err := plot.SavePNG(opts.out, res, vp, plot.Options{Colormap: cmap}); err != nil {
		return err
	}
	log.Printf("figure saved to %q", opts.out)

	if opts.saveParams != "" {
		if err := config.SaveCSV(opts.saveParams, opts.params); err != nil {
			return err
		}
		log.Printf("parameters saved to %q", opts.saveParams)
	}
	if opts.grid != "" {
		if err := saveGridCSV(opts.grid, res.Grid); err != nil {
			return err
		}
		log.Printf("escape counts saved to %q", opts.grid)
	}
	return nil
}

// writeGridCSV writes one record per grid row, row 0 first.
func writeGridCSV(w io.Writer, g *mandel.EscapeGrid) error {
	cw := csv.NewWriter(w)
	rec := make([]string, g.Width)
	for _, row := range g.Rows() {
		for i, c := range row {
			rec[i] = strconv.Itoa(c)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func saveGridCSV(path string, g *mandel.EscapeGrid) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := writeGridCSV(f, g); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
