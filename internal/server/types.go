package server

import (
	"errors"
	"time"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

// Message types.
const (
	TypeSnapshot = "snapshot"
)

// Errors
var (
	ErrHubClosed = errors.New("hub closed")
)

// Message is pushed to WebSocket clients.
type Message struct {
	Type      string          `json:"type"`
	Snapshot  *model.Snapshot `json:"snapshot"`
	NewEvents []model.Event   `json:"newEvents"`
}

// HubConfig holds per-client connection settings.
type HubConfig struct {
	WriteTimeout time.Duration // Deadline for a single write (default: 10s)
	PingInterval time.Duration // Keepalive ping period (default: 30s)
	PongTimeout  time.Duration // Drop client without pong for this long (default: 60s)
	SendBuffer   int           // Queued messages per client (default: 16)
}

// DefaultHubConfig returns sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
		SendBuffer:   16,
	}
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StartRequest is the body of POST /polling/start.
type StartRequest struct {
	IntervalMs int64 `json:"intervalMs"`
}
