// Package remote carries band jobs between the coordinating server and
// rendering workers as JSON messages over a websocket.
//
// The server side wraps each accepted connection in a RendererClient, which
// implements mandel.Renderer. The worker side runs ServeRenderer, which answers
// every job it reads with the result of its own mandel.Renderer.
package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandel_viewport"
)

// MaxMessageSize bounds a single band result on the wire.
const MaxMessageSize = 64 << 20

// RendererClient renders bands on the worker at the other end of conn.
// Calls are serialized, a worker computes one band at a time.
type RendererClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewRendererClient wraps an accepted worker connection.
func NewRendererClient(conn *websocket.Conn) *RendererClient {
	conn.SetReadLimit(MaxMessageSize)
	return &RendererClient{conn: conn}
}

// RenderBand implements mandel.Renderer.
func (c *RendererClient) RenderBand(ctx context.Context, job mandel.BandJob) (mandel.BandResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := wsjson.Write(ctx, c.conn, job); err != nil {
		return mandel.BandResult{}, fmt.Errorf("send job: %w", err)
	}
	var res mandel.BandResult
	if err := wsjson.Read(ctx, c.conn, &res); err != nil {
		return mandel.BandResult{}, fmt.Errorf("read result: %w", err)
	}
	if err := checkResult(job, res); err != nil {
		return mandel.BandResult{}, err
	}
	return res, nil
}

// Close closes the connection normally.
func (c *RendererClient) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

var _ mandel.Renderer = (*RendererClient)(nil)

func checkResult(job mandel.BandJob, res mandel.BandResult) error {
	if res.Band != job.Band {
		return fmt.Errorf("asked for rows %d..%d, got %d..%d: %w",
			job.Band.RowStart, job.Band.RowEnd, res.Band.RowStart, res.Band.RowEnd, mandel.ErrBandMismatch)
	}
	if want := job.Band.Rows() * job.Width; len(res.Counts) != want {
		return fmt.Errorf("rows %d..%d: got %d counts, want %d: %w",
			job.Band.RowStart, job.Band.RowEnd, len(res.Counts), want, mandel.ErrBandMismatch)
	}
	for _, c := range res.Counts {
		if c < 0 || c >= job.MaxIter {
			return fmt.Errorf("rows %d..%d: count %d outside [0, %d): %w",
				job.Band.RowStart, job.Band.RowEnd, c, job.MaxIter, mandel.ErrBandMismatch)
		}
	}
	return nil
}

// ServeRenderer answers band jobs read from conn with r until the peer closes
// the connection or ctx is done. A normal closure by the peer returns nil.
func ServeRenderer(ctx context.Context, conn *websocket.Conn, r mandel.Renderer) error {
	for {
		var job mandel.BandJob
		if err := wsjson.Read(ctx, conn, &job); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read job: %w", err)
		}
		logger().Debug("band job", "rows", job.Band.Rows(), "row_start", job.Band.RowStart)

		res, err := r.RenderBand(ctx, job)
		if err != nil {
			conn.Close(websocket.StatusInternalError, "render failed")
			return fmt.Errorf("render rows %d..%d: %w", job.Band.RowStart, job.Band.RowEnd, err)
		}
		if err := wsjson.Write(ctx, conn, res); err != nil {
			return fmt.Errorf("send result: %w", err)
		}
	}
}
