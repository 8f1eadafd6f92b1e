package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func testClient(handle string) *Client {
	return &Client{
		SessionHandle: handle,
		AccountID:     "a1",
		Username:      "alice",
		Send:          make(chan []byte, 8),
	}
}

func register(t *testing.T, h *Hub, c *Client) {
	t.Helper()
	h.Register <- c
	deadline := time.After(time.Second)
	for !h.IsSessionConnected(c.SessionHandle) {
		select {
		case <-deadline:
			t.Fatalf("session %s never registered", c.SessionHandle)
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestBroadcastToSession(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := testClient("h1")
	register(t, h, client)

	h.BroadcastToSession("h1", WSMessage{
		Type:      EventLivenessPing,
		Payload:   LivenessPingPayload{PingID: "p1", FromSession: "h2"},
		Timestamp: time.Now(),
	})

	select {
	case raw := <-client.Send:
		var msg struct {
			Type    string              `json:"type"`
			Payload LivenessPingPayload `json:"payload"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type != string(EventLivenessPing) || msg.Payload.PingID != "p1" {
			t.Fatalf("message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	// A push to an unconnected session is dropped quietly.
	h.BroadcastToSession("missing", WSMessage{Type: EventLivenessPing})
}

func TestReconnectReplacesSocket(t *testing.T) {
	h := NewHub()
	go h.Run()

	first := testClient("h1")
	register(t, h, first)

	second := testClient("h1")
	h.Register <- second

	// The first client's channel is closed by the replacement.
	select {
	case _, open := <-first.Send:
		if open {
			t.Fatal("expected the replaced client's channel to close")
		}
	case <-time.After(time.Second):
		t.Fatal("replaced client's channel never closed")
	}

	if h.GetConnectedCount() != 1 {
		t.Fatalf("connected count = %d, want 1", h.GetConnectedCount())
	}

	// Unregistering the stale client must not evict the live one.
	h.Unregister <- first
	time.Sleep(10 * time.Millisecond)
	if !h.IsSessionConnected("h1") {
		t.Fatal("live client evicted by stale unregister")
	}
}
