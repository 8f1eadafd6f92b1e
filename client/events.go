package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one push from the coordinator's event socket.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Event types pushed by the server.
const (
	EventConnectionRequest  = "connection_request"
	EventConnectionReply    = "connection_reply"
	EventConnectionComplete = "connection_complete"
	EventLivenessPing       = "liveness_ping"
)

// Subscribe opens the event socket for one of the caller's sessions and
// returns a channel of pushed events. The channel closes when the socket
// drops or the context is cancelled; callers that still need events after
// that fall back to polling the incoming endpoints.
func (c *Client) Subscribe(ctx context.Context, sessionHandle string) (<-chan Event, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws?session=" + sessionHandle

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		resp.Body.Close()
	}

	events := make(chan Event, 16)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()
		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
