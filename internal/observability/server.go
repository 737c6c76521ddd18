// # internal/observability/server.go
package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthSource supplies the fields reported by /health.
type HealthSource interface {
	FileCount() int
	SymbolCount() int
	EdgeCount() int
}

type healthStatus struct {
	Status  string `json:"status"`
	Files   int    `json:"files"`
	Symbols int    `json:"symbols"`
	Edges   int    `json:"edges"`
}

// Server exposes /metrics and /health on a side port.
type Server struct {
	addr   string
	source HealthSource
	server *http.Server
}

func NewServer(addr string, source HealthSource) *Server {
	return &Server{addr: addr, source: source}
}

func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{
			Status:  "up",
			Files:   s.source.FileCount(),
			Symbols: s.source.SymbolCount(),
			Edges:   s.source.EdgeCount(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
