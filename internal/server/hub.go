package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rickgao/ouc-dashboard/internal/dedup"
	"github.com/rickgao/ouc-dashboard/internal/model"
)

// Hub fans snapshots out to WebSocket clients.
type Hub struct {
	cfg      HubConfig
	tracker  *dedup.Tracker
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  *model.Snapshot
	closed  bool
}

// NewHub creates a Hub that owns its own dedup tracker.
func NewHub(cfg HubConfig, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultHubConfig()
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = def.PongTimeout
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	return &Hub{
		cfg:     cfg,
		tracker: dedup.NewTracker(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// HandleSnapshot implements poller.Consumer.
func (h *Hub) HandleSnapshot(snapshot model.Snapshot) error {
	newEvents := h.tracker.DetectNew(snapshot.Events.Events)

	data, err := json.Marshal(Message{
		Type:      TypeSnapshot,
		Snapshot:  &snapshot,
		NewEvents: newEvents,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot message: %w", err)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.latest = &snapshot
	var slow []*client
	for c := range h.clients {
		if !c.enqueue(data) {
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		delete(h.clients, c)
	}
	clients := len(h.clients)
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("client buffer full, dropping client")
		c.close()
	}

	h.logger.Debug("snapshot broadcast",
		"clients", clients,
		"new_events", len(newEvents),
		"failures", len(snapshot.Failures),
	)

	return nil
}

// Latest returns the most recent snapshot, or false before the first one.
func (h *Hub) Latest() (model.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return model.Snapshot{}, false
	}
	return *h.latest, true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a WebSocket and streams snapshots until
// the client disconnects. A new client immediately receives the latest
// snapshot, with no new events.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	c := newClient(h.cfg, conn, h.logger)
	if !h.register(c) {
		c.close()
		return
	}

	h.logger.Debug("websocket client connected", "remote", r.RemoteAddr)

	go c.writeLoop()
	c.readLoop()

	h.remove(c)
	h.logger.Debug("websocket client disconnected", "remote", r.RemoteAddr)
}

// register adds c and queues the latest snapshot for it in one critical
// section, so no broadcast can reach c ahead of that snapshot. Returns false
// once the hub is closed.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}

	if h.latest != nil {
		data, err := json.Marshal(Message{
			Type:      TypeSnapshot,
			Snapshot:  h.latest,
			NewEvents: []model.Event{},
		})
		if err != nil {
			h.logger.Warn("failed to encode latest snapshot", "err", err)
		} else {
			c.enqueue(data)
		}
	}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// Close disconnects every client and rejects further snapshots.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
