package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"

	mandel "github.com/marben/mandel_viewport"
	"github.com/marben/mandel_viewport/config"
	"github.com/marben/mandel_viewport/plot"
	"github.com/marben/mandel_viewport/remote"
	"github.com/marben/mandel_viewport/render"
)

// webServer exposes the coordinator over http.
// Workers connect on /ws, everything else is plain http.
type webServer struct {
	coord *coordinator
	base  config.Params
}

// newHTTPServer ties every request context to ctx, so worker connections end
// with it.
func newHTTPServer(ctx context.Context, addr string, ws *webServer) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           ws.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func (ws *webServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", ws.websocketHandler)
	mux.HandleFunc("POST /render", ws.renderHandler)
	mux.HandleFunc("GET /render", ws.renderHandler)
	mux.HandleFunc("GET /status", ws.statusHandler)
	mux.HandleFunc("GET /figure.png", ws.figureHandler)
	mux.HandleFunc("GET /grid.json", ws.gridHandler)
	return mux
}

// websocketHandler turns every connection into a worker until it goes away.
func (ws *webServer) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Println(err)
		return
	}
	log.Printf("worker connected: %s", r.RemoteAddr)

	client := remote.NewRendererClient(c)
	if err := ws.coord.addRenderer(r.Context(), client); err != nil {
		log.Printf("worker %s: %v", r.RemoteAddr, err)
		c.Close(websocket.StatusInternalError, "band failed")
		return
	}
	client.Close()
	log.Printf("worker disconnected: %s", r.RemoteAddr)
}

// renderHandler submits a new job. Query parameters override the server's
// base parameters, keys are the ones of the parameter file.
func (ws *webServer) renderHandler(w http.ResponseWriter, r *http.Request) {
	p := ws.base
	q := r.URL.Query()
	for _, key := range config.Keys() {
		if !q.Has(key) {
			continue
		}
		if err := p.Set(key, q.Get(key)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	job, err := ws.coord.submit(p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusAccepted, job.status())
}

func (ws *webServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	job, _ := ws.coord.current()
	if job == nil {
		http.Error(w, "no render job", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.status())
}

// figureHandler waits for the current job and responds with its figure.
func (ws *webServer) figureHandler(w http.ResponseWriter, r *http.Request) {
	job, res, ok := ws.waitGrid(w, r)
	if !ok {
		return
	}
	cmap, err := render.LookupColormap(job.params.Colormap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := plot.WritePNG(w, res, job.vp, plot.Options{Colormap: cmap}); err != nil {
		log.Printf("figure: %v", err)
	}
}

type gridResponse struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	MaxIter int           `json:"max_iter"`
	Region  mandel.Region `json:"region"`
	Rows    [][]int       `json:"rows"`
	Params  config.Params `json:"params"`
}

// gridHandler waits for the current job and responds with the raw counts,
// one array per row.
func (ws *webServer) gridHandler(w http.ResponseWriter, r *http.Request) {
	job, res, ok := ws.waitGrid(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, gridResponse{
		Width:   res.Grid.Width,
		Height:  res.Grid.Height,
		MaxIter: res.Grid.MaxIter,
		Region:  res.Region,
		Rows:    res.Grid.Rows(),
		Params:  job.params,
	})
}

func (ws *webServer) waitGrid(w http.ResponseWriter, r *http.Request) (*bandScheduler, mandel.Result, bool) {
	job, _ := ws.coord.current()
	if job == nil {
		http.Error(w, "no render job", http.StatusNotFound)
		return nil, mandel.Result{}, false
	}
	res, err := job.GetGrid(r.Context())
	switch {
	case errors.Is(err, errJobReplaced):
		http.Error(w, err.Error(), http.StatusConflict)
		return nil, mandel.Result{}, false
	case err != nil:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return nil, mandel.Result{}, false
	}
	return job, res, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json %T: %v", v, err)
	}
}
