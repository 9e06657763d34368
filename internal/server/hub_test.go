package server

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

func snapshotWith(ids ...string) model.Snapshot {
	events := make([]model.Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, model.Event{EventID: id})
	}
	return model.Snapshot{
		Auditors:  []model.Auditor{},
		Events:    model.EventsPage{Events: events},
		FetchedAt: time.Now(),
	}
}

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), n)
}

func eventIDs(events []model.Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.EventID
	}
	return ids
}

func TestHub_BroadcastsNewEvents(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	if err := hub.HandleSnapshot(snapshotWith("e1", "e2")); err != nil {
		t.Fatalf("HandleSnapshot failed: %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Type != TypeSnapshot {
		t.Errorf("Type = %q, want %q", msg.Type, TypeSnapshot)
	}
	if got := eventIDs(msg.NewEvents); strings.Join(got, ",") != "e1,e2" {
		t.Errorf("NewEvents = %v, want [e1 e2]", got)
	}
	if msg.Snapshot == nil || len(msg.Snapshot.Events.Events) != 2 {
		t.Errorf("Snapshot = %+v", msg.Snapshot)
	}

	if err := hub.HandleSnapshot(snapshotWith("e2", "e3")); err != nil {
		t.Fatalf("HandleSnapshot failed: %v", err)
	}
	msg = readMessage(t, conn)
	if got := eventIDs(msg.NewEvents); strings.Join(got, ",") != "e3" {
		t.Errorf("NewEvents = %v, want [e3]", got)
	}

	if err := hub.HandleSnapshot(snapshotWith("e2", "e3")); err != nil {
		t.Fatalf("HandleSnapshot failed: %v", err)
	}
	msg = readMessage(t, conn)
	if msg.NewEvents == nil || len(msg.NewEvents) != 0 {
		t.Errorf("NewEvents = %#v, want empty", msg.NewEvents)
	}
}

func TestHub_NewClientGetsLatest(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)
	defer hub.Close()

	if _, ok := hub.Latest(); ok {
		t.Fatal("Latest() ok before any snapshot")
	}
	if err := hub.HandleSnapshot(snapshotWith("e1")); err != nil {
		t.Fatalf("HandleSnapshot failed: %v", err)
	}
	if latest, ok := hub.Latest(); !ok || len(latest.Events.Events) != 1 {
		t.Fatalf("Latest() = %+v, %v", latest, ok)
	}

	conn := dialHub(t, hub)
	msg := readMessage(t, conn)

	if msg.Snapshot == nil || len(msg.Snapshot.Events.Events) != 1 {
		t.Errorf("Snapshot = %+v, want latest", msg.Snapshot)
	}
	if len(msg.NewEvents) != 0 {
		t.Errorf("NewEvents = %v, want empty on connect", msg.NewEvents)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.Close()
	hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("ReadMessage succeeded after Close, want error")
	}
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
	if err := hub.HandleSnapshot(snapshotWith("e1")); !errors.Is(err, ErrHubClosed) {
		t.Errorf("HandleSnapshot after Close = %v, want ErrHubClosed", err)
	}
}

func TestClient_EnqueueFullBuffer(t *testing.T) {
	c := &client{
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}

	if !c.enqueue([]byte("a")) {
		t.Error("first enqueue failed")
	}
	if c.enqueue([]byte("b")) {
		t.Error("enqueue into full buffer succeeded")
	}
}

func TestHub_RegisterQueuesLatestFirst(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)

	if err := hub.HandleSnapshot(snapshotWith("e1")); err != nil {
		t.Fatalf("HandleSnapshot failed: %v", err)
	}

	c := &client{
		send: make(chan []byte, 4),
		done: make(chan struct{}),
	}
	if !hub.register(c) {
		t.Fatal("register() = false on open hub")
	}
	if err := hub.HandleSnapshot(snapshotWith("e1", "e2")); err != nil {
		t.Fatalf("HandleSnapshot failed: %v", err)
	}

	var got [][]string
	for len(c.send) > 0 {
		var msg Message
		if err := json.Unmarshal(<-c.send, &msg); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		got = append(got, eventIDs(msg.Snapshot.Events.Events))
	}

	if len(got) != 2 {
		t.Fatalf("queued messages = %d, want 2", len(got))
	}
	if strings.Join(got[0], ",") != "e1" || strings.Join(got[1], ",") != "e1,e2" {
		t.Errorf("queued snapshots = %v, want latest first then the broadcast", got)
	}
}

func TestHub_RegisterAfterClose(t *testing.T) {
	hub := NewHub(DefaultHubConfig(), nil)
	hub.Close()

	c := &client{
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}
	if hub.register(c) {
		t.Error("register() = true on closed hub")
	}
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}
