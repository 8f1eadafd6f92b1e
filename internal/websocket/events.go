package websocket

import (
	"time"

	"github.com/Ogyeet10/chat-lol/internal/models"
)

// EventType represents different WebSocket event types
type EventType string

const (
	// Signaling events
	EventConnectionRequest  EventType = "connection_request"
	EventConnectionReply    EventType = "connection_reply"
	EventConnectionComplete EventType = "connection_complete"

	// Liveness events
	EventLivenessPing EventType = "liveness_ping"

	// Error events
	EventError EventType = "error"
)

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConnectionRequestPayload notifies a session of signaling activity on a
// request it participates in.
type ConnectionRequestPayload struct {
	Request models.ConnectionRequest `json:"request"`
}

// LivenessPingPayload notifies a session that a peer is probing it.
type LivenessPingPayload struct {
	PingID      string `json:"pingId"`
	FromSession string `json:"fromSession"`
}

// ErrorPayload represents error event payload
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
