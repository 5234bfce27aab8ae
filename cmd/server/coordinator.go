package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	mandel "github.com/marben/mandel_viewport"
	"github.com/marben/mandel_viewport/config"
)

// coordinator owns the current render job. Submitting a new job aborts the
// previous one and moves every connected renderer over to it.
type coordinator struct {
	bandRows int

	m       sync.Mutex
	job     *bandScheduler
	changed chan struct{}
}

func newCoordinator(bandRows int) *coordinator {
	return &coordinator{
		bandRows: bandRows,
		changed:  make(chan struct{}),
	}
}

// submit validates p and makes it the current job.
func (c *coordinator) submit(p config.Params) (*bandScheduler, error) {
	vp, err := p.Viewport()
	if err != nil {
		return nil, err
	}
	job := newBandScheduler(p, vp, c.bandRows)

	c.m.Lock()
	prev := c.job
	c.job = job
	close(c.changed)
	c.changed = make(chan struct{})
	c.m.Unlock()

	if prev != nil {
		prev.abort()
	}
	log.Printf("new job: %dx%d, %d iterations, center (%g, %g), zoom %g",
		vp.Width, vp.Height, vp.MaxIter, vp.CenterReal, vp.CenterImag, vp.Zoom)
	return job, nil
}

// current returns the current job, nil if nothing was submitted yet,
// and a channel closed on the next submit.
func (c *coordinator) current() (*bandScheduler, <-chan struct{}) {
	c.m.Lock()
	defer c.m.Unlock()
	return c.job, c.changed
}

// addRenderer keeps r busy with the current job's bands until ctx is done
// or r fails.
func (c *coordinator) addRenderer(ctx context.Context, r mandel.Renderer) error {
	for {
		job, changed := c.current()
		if job != nil {
			if err := job.render(ctx, r); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("renderer: %w", err)
			}
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return nil
		}
	}
}
