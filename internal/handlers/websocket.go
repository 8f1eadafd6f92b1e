package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	ws "github.com/Ogyeet10/chat-lol/internal/websocket"
)

// WebSocketUpgrade checks the upgrade handshake and binds the socket to one
// of the caller's own sessions, named by the ?session= query parameter.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
			"success": false,
			"error":   "WebSocket upgrade required",
		})
	}

	accountID := c.Locals("accountID").(string)

	sessionHandle := c.Query("session")
	if sessionHandle == "" {
		return badRequest(c, "session query parameter is required")
	}

	sess, err := Store.GetSession(c.Context(), sessionHandle)
	if err != nil || sess.AccountID != accountID {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Session does not belong to the authenticated account",
			"code":    "unauthorized",
		})
	}

	c.Locals("sessionHandle", sessionHandle)
	return c.Next()
}

// WebSocketHandler handles WebSocket connections
func WebSocketHandler(c *websocket.Conn) {
	// Set by WebSocketUpgrade and the auth middleware
	sessionHandle := c.Locals("sessionHandle").(string)
	accountID := c.Locals("accountID").(string)
	username := c.Locals("username").(string)

	client := ws.NewClient(sessionHandle, accountID, username, c, WSHub)

	WSHub.Register <- client

	go client.WritePump()
	client.ReadPump() // This blocks until connection closes
}

// GetWebSocketStats returns WebSocket connection statistics
func GetWebSocketStats(c *fiber.Ctx) error {
	if WSHub == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "WebSocket hub not initialized",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"connectedSessions": WSHub.GetConnectedCount(),
		},
	})
}
