package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/ouc-dashboard/internal/poller"
	"github.com/rickgao/ouc-dashboard/internal/version"
)

// PollController is the part of the poller the server drives.
type PollController interface {
	Start(interval time.Duration, consumer poller.Consumer) error
	Stop()
	Status() poller.Status
}

// Config holds server configuration.
type Config struct {
	Port            int           // Listen port
	Path            string        // WebSocket path (default: /ws)
	DefaultInterval time.Duration // Interval used when a start request omits one
}

// Server serves the push hub and the polling controls.
type Server struct {
	cfg      Config
	hub      *Hub
	poller   PollController
	consumer poller.Consumer
	logger   *slog.Logger

	http *http.Server
}

// New creates a Server. consumer is what the poller delivers to when started
// through the HTTP controls; it should include hub.
func New(cfg Config, hub *Hub, ctrl PollController, consumer poller.Consumer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		cfg.Path = "/ws"
	}
	if consumer == nil {
		consumer = hub
	}
	s := &Server{
		cfg:      cfg,
		hub:      hub,
		poller:   ctrl,
		consumer: consumer,
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET "+s.cfg.Path, s.hub)
	mux.HandleFunc("GET /snapshot", s.snapshotHandler)
	mux.HandleFunc("GET /healthz", s.healthHandler)
	mux.HandleFunc("GET /polling/status", s.statusHandler)
	mux.HandleFunc("POST /polling/start", s.startHandler)
	mux.HandleFunc("POST /polling/stop", s.stopHandler)
	return mux
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("dashboard server listening", "addr", s.http.Addr, "ws_path", s.cfg.Path)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes every WebSocket client and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}

func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.hub.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status  string        `json:"status"`
		Version version.Info  `json:"version"`
		Polling poller.Status `json:"polling"`
		Clients int           `json:"clients"`
	}{
		Status:  "ok",
		Version: version.Current(),
		Polling: s.poller.Status(),
		Clients: s.hub.ClientCount(),
	}
	if latest, ok := s.hub.Latest(); ok && latest.Degraded() {
		health.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.poller.Status())
}

func (s *Server) startHandler(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	interval := s.cfg.DefaultInterval
	if req.IntervalMs != 0 {
		interval = time.Duration(req.IntervalMs) * time.Millisecond
	}

	if err := s.poller.Start(interval, s.consumer); err != nil {
		if errors.Is(err, poller.ErrInvalidInterval) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("failed to start poller", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.poller.Status())
}

func (s *Server) stopHandler(w http.ResponseWriter, r *http.Request) {
	s.poller.Stop()
	writeJSON(w, http.StatusOK, s.poller.Status())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
