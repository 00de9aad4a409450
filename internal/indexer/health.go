package indexer

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthServer exposes a tiny liveness endpoint for the indexer process,
// reporting the last scan time passed to RecordScan (0 until it is
// called). cmd/codeindexer records its initial full scan; periodic
// rescans and watch-triggered indexing do not update it.
type HealthServer struct {
	lastScan atomic.Int64 // unix seconds
	srv      *http.Server
}

// NewHealthServer constructs a HealthServer bound to addr. Call Start to
// begin serving.
func NewHealthServer(addr string) *HealthServer {
	h := &HealthServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.serveHealth)
	h.srv = &http.Server{Addr: addr, Handler: mux}
	return h
}

// RecordScan marks now as the last successful scan time.
func (h *HealthServer) RecordScan(now time.Time) {
	h.lastScan.Store(now.Unix())
}

func (h *HealthServer) serveHealth(w http.ResponseWriter, r *http.Request) {
	last := h.lastScan.Load()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "ok",
		"last_scan_unix": last,
	})
}

// Start begins serving in a background goroutine. Listener errors after
// shutdown are swallowed; they are expected.
func (h *HealthServer) Start() {
	go h.srv.ListenAndServe()
}

// Close shuts down the health server.
func (h *HealthServer) Close() error {
	return h.srv.Close()
}
