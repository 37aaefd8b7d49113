// Package health serves liveness and readiness probes backed by named
// dependency checks (RPC node, indexer, signer).
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"
)

const checkTimeout = 5 * time.Second

// Report is the /health response body.
type Report struct {
	Status    string           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Version   string           `json:"version,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// Check is one dependency's result.
type Check struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) (bool, string)

// Server exposes /health, /ready and /live.
type Server struct {
	port    int
	version string

	mu     sync.RWMutex
	checks map[string]CheckFunc

	server *http.Server
}

// NewServer creates a probe server. It does not listen until Start.
func NewServer(port int, version string) *Server {
	return &Server{
		port:    port,
		version: version,
		checks:  make(map[string]CheckFunc),
	}
}

// RegisterCheck adds or replaces a named check.
func (s *Server) RegisterCheck(name string, check CheckFunc) {
	s.mu.Lock()
	s.checks[name] = check
	s.mu.Unlock()
}

// Handler returns the probe mux, for embedding or tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("alive"))
	})
	return mux
}

// Start binds the port synchronously, so a taken port is reported to the
// caller, then serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("health: listen on %d: %w", s.port, err)
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go s.server.Serve(ln)
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Run evaluates every check.
func (s *Server) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	checks := make(map[string]CheckFunc, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	s.mu.RUnlock()
	sort.Strings(names)

	report := Report{
		Status:    "ok",
		Checks:    make(map[string]Check, len(names)),
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, name := range names {
		healthy, msg := checks[name](ctx)
		report.Checks[name] = Check{Healthy: healthy, Message: msg}
		if !healthy {
			report.Status = "degraded"
		}
	}
	return report
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.Run(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if report.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Run(r.Context()).Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
