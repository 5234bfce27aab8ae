package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	mandel "github.com/marben/mandel_viewport"
	"github.com/marben/mandel_viewport/config"
)

var errJobReplaced = errors.New("render job replaced by a newer one")

// bandScheduler hands out the bands of one escape grid to any number of
// renderers and assembles their results.
type bandScheduler struct {
	params config.Params
	vp     mandel.Viewport
	region mandel.Region
	grid   *mandel.EscapeGrid

	// done is canceled once the grid is complete or the job is aborted
	done       context.Context
	doneCancel context.CancelFunc
	complete   bool

	workers       int
	totalBands    int
	finishedBands int

	unstarted []mandel.Band
	inProcess map[mandel.Band]struct{}
	m         sync.Mutex
}

func newBandScheduler(p config.Params, vp mandel.Viewport, bandRows int) *bandScheduler {
	bands := mandel.SplitBands(vp.Height, bandRows)
	done, cancel := context.WithCancel(context.Background())
	return &bandScheduler{
		params:     p,
		vp:         vp,
		region:     vp.Bounds(),
		grid:       mandel.NewEscapeGrid(vp.Width, vp.Height, vp.MaxIter),
		done:       done,
		doneCancel: cancel,
		totalBands: len(bands),
		unstarted:  bands,
		inProcess:  make(map[mandel.Band]struct{}),
	}
}

func (bs *bandScheduler) popBand() (band mandel.Band, found bool) {
	bs.m.Lock()
	defer bs.m.Unlock()

	if bs.done.Err() != nil {
		return mandel.Band{}, false
	}

	// Get unstarted band, top of the queue first
	if len(bs.unstarted) > 0 {
		band = bs.unstarted[0]
		bs.unstarted = bs.unstarted[1:]

		// Move popped band to currently processed bands
		bs.inProcess[band] = struct{}{}
		return band, true
	}

	// If there is no unstarted band, we work again on a started one
	for band = range bs.inProcess {
		return band, true
	}

	return mandel.Band{}, false
}

func (bs *bandScheduler) job(b mandel.Band) mandel.BandJob {
	return mandel.BandJob{
		Width:   bs.vp.Width,
		Height:  bs.vp.Height,
		MaxIter: bs.vp.MaxIter,
		Region:  bs.region,
		Band:    b,
	}
}

func (bs *bandScheduler) bandFinished(res mandel.BandResult) error {
	bs.m.Lock()
	defer bs.m.Unlock()

	if _, found := bs.inProcess[res.Band]; !found {
		// finished earlier by another renderer
		return nil
	}
	if err := bs.grid.SetBand(res); err != nil {
		return err
	}
	delete(bs.inProcess, res.Band)
	bs.finishedBands++

	if len(bs.unstarted) == 0 && len(bs.inProcess) == 0 {
		bs.complete = true
		bs.doneCancel()
	}
	return nil
}

// abort stops handing out bands. Waiters of GetGrid get errJobReplaced.
func (bs *bandScheduler) abort() {
	bs.m.Lock()
	defer bs.m.Unlock()
	bs.doneCancel()
}

// GetGrid implements mandel.GridProvider.
func (bs *bandScheduler) GetGrid(ctx context.Context) (mandel.Result, error) {
	select {
	case <-bs.done.Done():
	case <-ctx.Done():
		return mandel.Result{}, ctx.Err()
	}

	bs.m.Lock()
	defer bs.m.Unlock()
	if !bs.complete {
		return mandel.Result{}, errJobReplaced
	}
	return mandel.Result{Grid: bs.grid, Region: bs.region}, nil
}

type jobStatus struct {
	Params        config.Params `json:"params"`
	Region        mandel.Region `json:"region"`
	Workers       int           `json:"workers"`
	TotalBands    int           `json:"total_bands"`
	FinishedBands int           `json:"finished_bands"`
	Progress      float32       `json:"progress"`
	Complete      bool          `json:"complete"`
}

func (bs *bandScheduler) status() jobStatus {
	bs.m.Lock()
	defer bs.m.Unlock()
	return jobStatus{
		Params:        bs.params,
		Region:        bs.region,
		Workers:       bs.workers,
		TotalBands:    bs.totalBands,
		FinishedBands: bs.finishedBands,
		Progress:      float32(bs.finishedBands) / float32(bs.totalBands),
		Complete:      bs.complete,
	}
}

func (bs *bandScheduler) incActiveWorker() {
	bs.m.Lock()
	bs.workers++
	w := bs.workers
	bs.m.Unlock()

	log.Printf("workers: %d", w)
}

func (bs *bandScheduler) decActiveWorkers() {
	bs.m.Lock()
	bs.workers--
	w := bs.workers
	bs.m.Unlock()

	log.Printf("workers: %d", w)
}

// renders unfinished bands on provided Renderer
// can be called from multiple goroutines in parallel
func (bs *bandScheduler) render(ctx context.Context, renderer mandel.Renderer) error {
	bs.incActiveWorker()
	defer bs.decActiveWorkers()

	for {
		band, found := bs.popBand()
		if !found {
			return nil
		}
		res, err := renderer.RenderBand(ctx, bs.job(band))
		if err != nil {
			return fmt.Errorf("render of band %d..%d: %w", band.RowStart, band.RowEnd, err)
		}
		if res.Band != band {
			return fmt.Errorf("asked for band %d..%d, got %d..%d: %w",
				band.RowStart, band.RowEnd, res.Band.RowStart, res.Band.RowEnd, mandel.ErrBandMismatch)
		}
		if err := bs.bandFinished(res); err != nil {
			return fmt.Errorf("band %d..%d: %w", band.RowStart, band.RowEnd, err)
		}
	}
}
