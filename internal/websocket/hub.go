package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected sessions and pushes coordinator events
// to them. Push is best-effort: the polling endpoints remain the source of
// truth, so a dropped event only costs one poll interval.
type Hub struct {
	// Registered clients mapped by session handle
	Clients map[string]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// One socket per session handle; a reconnect replaces the old one
	if existingClient, ok := h.Clients[client.SessionHandle]; ok {
		close(existingClient.Send)
	}

	h.Clients[client.SessionHandle] = client
	log.Printf("Session subscribed: %s (%s)", client.SessionHandle, client.Username)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.Clients[client.SessionHandle]; ok && current == client {
		delete(h.Clients, client.SessionHandle)
		close(client.Send)
		log.Printf("Session unsubscribed: %s (%s)", client.SessionHandle, client.Username)
	}
}

// BroadcastToSession sends a message to a specific session
func (h *Hub) BroadcastToSession(sessionHandle string, message WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.Clients[sessionHandle]; ok {
		data, err := json.Marshal(message)
		if err != nil {
			log.Printf("Failed to marshal message: %v", err)
			return
		}

		select {
		case client.Send <- data:
		default:
			log.Printf("Failed to push event to session: %s", sessionHandle)
		}
	}
}

// IsSessionConnected checks if a session currently holds a socket
func (h *Hub) IsSessionConnected(sessionHandle string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.Clients[sessionHandle]
	return ok
}

// GetConnectedCount returns the number of currently connected sessions
func (h *Hub) GetConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.Clients)
}
