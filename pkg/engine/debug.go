package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// DebugServer exposes runtime state over HTTP for inspection:
//
//	/health   liveness check
//	/snapshot latest snapshots of every mounted root
//	/stats    cascade timing statistics
//
// The runtime publishes fresh JSON after every cascade; handlers serve
// the latest published bytes and never touch runtime structures, so
// the server cannot race the single-threaded queue.
type DebugServer struct {
	server   *http.Server
	listener net.Listener
	port     int
	state    atomic.Value // debugPayload
}

type debugPayload struct {
	snapshots []byte
	stats     []byte
}

// EnableDebug starts the inspection server on the given port (0 picks
// an ephemeral one) and returns the bound port. Idempotent; the server
// runs until Close.
func (rt *Runtime) EnableDebug(port int) (int, error) {
	if rt.debug != nil {
		return rt.debug.port, nil
	}
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("debug server listen: %w", err)
	}

	d := &DebugServer{
		listener: listener,
		port:     listener.Addr().(*net.TCPAddr).Port,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", d.handleHealth)
	mux.HandleFunc("/snapshot", d.handleSnapshot)
	mux.HandleFunc("/stats", d.handleStats)
	d.server = &http.Server{Handler: mux}

	rt.debug = d
	rt.publishDebug()

	go func() {
		if err := d.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Warn("weft debug server stopped", "err", err)
		}
	}()
	return d.port, nil
}

// publishDebug refreshes the served state. Runs on the runtime thread
// after each drain.
func (rt *Runtime) publishDebug() {
	if rt.debug == nil {
		return
	}
	rt.debug.publish(rt.Snapshots(), rt.Stats())
}

func (d *DebugServer) publish(snaps []Snapshot, stats Stats) {
	snapJSON, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		snapJSON = []byte("[]")
	}
	statsJSON, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		statsJSON = []byte("{}")
	}
	d.state.Store(debugPayload{snapshots: snapJSON, stats: statsJSON})
}

func (d *DebugServer) payload() debugPayload {
	p, _ := d.state.Load().(debugPayload)
	return p
}

func (d *DebugServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (d *DebugServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(d.payload().snapshots)
}

func (d *DebugServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(d.payload().stats)
}

// stop shuts the server down, waiting briefly for in-flight requests.
func (d *DebugServer) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	d.server.Shutdown(ctx)
}
