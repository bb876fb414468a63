package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"

	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// Server serves a JSON snapshot of every stage's tether readings.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer builds a Server that, once Start is called, listens on addr
// (e.g. "0.0.0.0:9186", this system's default) and serves tether snapshots
// at GET /tethers.
func NewServer(addr string, tethers func() []*stage.Tether) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/tethers", func(w http.ResponseWriter, r *http.Request) {
		snapshot := make(map[string]stageSnapshot)
		for _, t := range tethers() {
			snapshot[t.Name()] = stageSnapshot{
				State:    t.State().String(),
				Readings: t.Readings(),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	})

	handler := cors.Default().Handler(mux)

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: handler},
	}
}

type stageSnapshot struct {
	State    string                    `json:"state"`
	Readings map[string]stage.Reading `json:"readings"`
}

// Start begins serving in the background. It does not block.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics: server stopped", "addr", s.addr, "err", err)
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
