package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marben/mandel_viewport/config"
	"github.com/marben/mandel_viewport/render"
)

// main is the entry point for the Mandelbrot server.
// The server splits each render job into row bands and hands them to its
// local renderers and to every worker connected over websocket.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	addr := flag.String("addr", ":8080", "http listen address")
	paramsPath := flag.String("params", "", "parameter file of the initial job, defaults if empty")
	local := flag.Int("local", runtime.NumCPU(), "number of in-process renderers")
	bandRows := flag.Int("band-rows", 16, "rows per band")
	flag.Parse()

	if *bandRows <= 0 {
		return fmt.Errorf("band-rows must be positive, got %d", *bandRows)
	}

	params := config.Defaults()
	if *paramsPath != "" {
		var err error
		if params, err = config.LoadCSV(*paramsPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	coord := newCoordinator(*bandRows)
	if _, err := coord.submit(params); err != nil {
		return fmt.Errorf("initial job: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	// local renderers share the work with remote workers
	for i := range *local {
		eg.Go(func() error {
			r := render.RendererImpl{}
			if err := coord.addRenderer(ctx, r); err != nil {
				return fmt.Errorf("local renderer %d: %w", i, err)
			}
			return nil
		})
	}

	srv := newHTTPServer(ctx, *addr, &webServer{coord: coord, base: params})
	eg.Go(func() error {
		log.Printf("listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
