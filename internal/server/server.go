// Package server exposes the scanner over a websocket endpoint so a UI can
// watch scan events live.
package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"SqueezeScan/internal/model"
	"SqueezeScan/internal/scanner"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server relays scan event streams to websocket clients.
type Server struct {
	Scanner *scanner.Scanner
	Addr    string
}

// NewServer creates a Server listening on addr.
func NewServer(sc *scanner.Scanner, addr string) *Server {
	return &Server{Scanner: sc, Addr: addr}
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/scan", s.handleScan)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: s.Addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] scan server listening on %s", s.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleScan upgrades the connection and streams one scan of the requested
// symbols as JSON events. Client disconnect cancels the scan, so no fetching
// continues for an abandoned stream.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		http.Error(w, "missing symbols parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads are only expected to fail; use them to detect disconnect.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Printf("[INFO] scan stream opened: %d symbols", len(symbols))

	for ev := range s.Scanner.Scan(ctx, symbols) {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("[WARN] scan stream write: %v", err)
			return
		}
		if ev.Type == model.EventComplete {
			break
		}
	}
}

func splitSymbols(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return scanner.Normalize(strings.Split(raw, ","))
}
