package handlers

import (
	"log"

	"github.com/Ogyeet10/chat-lol/internal/connect"
	"github.com/Ogyeet10/chat-lol/internal/friends"
	"github.com/Ogyeet10/chat-lol/internal/liveness"
	"github.com/Ogyeet10/chat-lol/internal/session"
	"github.com/Ogyeet10/chat-lol/internal/store"
	ws "github.com/Ogyeet10/chat-lol/internal/websocket"
)

// Package-level services wired once at startup (and by tests).
var (
	Store    store.Store
	Sessions *session.Registry
	Friends  *friends.Graph
	Prober   *liveness.Prober
	Connect  *connect.Coordinator

	// WSHub is the global event push hub instance
	WSHub *ws.Hub
)

// Init wires the handler package to its services.
func Init(st store.Store, sessions *session.Registry, graph *friends.Graph, prober *liveness.Prober, coordinator *connect.Coordinator) {
	Store = st
	Sessions = sessions
	Friends = graph
	Prober = prober
	Connect = coordinator
}

// InitWebSocket initializes the event push hub
func InitWebSocket() {
	WSHub = ws.NewHub()
	go WSHub.Run()
	log.Println("✅ WebSocket Hub initialized")
}

// pushToSession delivers a hub event if the hub is running and the session
// holds a socket. Polling remains the contract; this only shortens latency.
func pushToSession(sessionHandle string, msg ws.WSMessage) {
	if WSHub == nil {
		return
	}
	WSHub.BroadcastToSession(sessionHandle, msg)
}
