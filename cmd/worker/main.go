// worker is a CLI client for the distributed Mandelbrot renderer.
// It connects to the Mandelbrot server and renders bands with its CPU.
// Given -out, it also asks the server for the figure of the current job and
// quits once it is saved.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"

	"github.com/coder/websocket"

	mandel "github.com/marben/mandel_viewport"
	"github.com/marben/mandel_viewport/remote"
	"github.com/marben/mandel_viewport/render"
)

// main is the entry point for the worker.
// It runs the worker logic and logs any fatal errors.
func main() {
	log.Printf("Starting worker...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	server := flag.String("server", "http://localhost:8080", "address of the Mandelbrot server")
	out := flag.String("out", "", "save the figure of the current job to this file and quit")
	flag.Parse()

	base, err := url.Parse(*server)
	if err != nil {
		return fmt.Errorf("server address: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Step 1: Connect to Mandelbrot server
	wsURL := base.JoinPath("ws")
	wsURL.Scheme = "ws"
	if base.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	log.Printf("Connecting to Mandelbrot server on %s...", wsURL.String())
	conn, _, err := websocket.Dial(ctx, wsURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer conn.CloseNow()

	// Step 2: Serve bands the server asks for, using our CPU
	renderer := render.RendererImpl{OnBandRender: func(job mandel.BandJob) {
		log.Printf("Rendering rows %d..%d", job.Band.RowStart, job.Band.RowEnd)
	}}
	served := make(chan error, 1)
	go func() { served <- remote.ServeRenderer(ctx, conn, renderer) }()

	if *out == "" {
		if err := <-served; err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		log.Printf("Disconnected")
		return nil
	}

	// Step 3: Request the finished figure from the server
	log.Printf("Requesting figure from server...")
	figure := make(chan error, 1)
	go func() { figure <- saveFigure(ctx, base.JoinPath("figure.png").String(), *out) }()

	select {
	case err := <-figure:
		if err != nil {
			return err
		}
		log.Printf("Figure saved to %q", *out)
		return conn.Close(websocket.StatusNormalClosure, "")
	case err := <-served:
		if err == nil {
			err = errors.New("server closed the connection")
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func saveFigure(ctx context.Context, figureURL, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, figureURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("get figure: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("get figure: %s: %s", resp.Status, msg)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write figure: %w", err)
	}
	return f.Close()
}
