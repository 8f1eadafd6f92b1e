package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ogyeet10/chat-lol/internal/models"
	ws "github.com/Ogyeet10/chat-lol/internal/websocket"
)

// OpenConnectionRequest represents the signaling open body
type OpenConnectionRequest struct {
	FromSession string `json:"fromSession"`
	ToSession   string `json:"toSession"`
	Offer       string `json:"offer"`
}

// ReplyConnectionRequest represents the signaling reply body
type ReplyConnectionRequest struct {
	Answer string `json:"answer"`
}

// OpenConnection creates a signaling request toward another live session
func OpenConnection(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	var req OpenConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.FromSession == "" || req.ToSession == "" {
		return badRequest(c, "fromSession and toSession are required")
	}
	if req.Offer == "" {
		return badRequest(c, "offer is required")
	}

	request, err := Connect.Open(c.Context(), accountID, req.FromSession, req.ToSession, req.Offer)
	if err != nil {
		return respondError(c, err)
	}

	pushToSession(request.ToSession, ws.WSMessage{
		Type:      ws.EventConnectionRequest,
		Payload:   ws.ConnectionRequestPayload{Request: request},
		Timestamp: time.Now(),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    request,
	})
}

// ReplyConnection attaches the answer payload to a pending request
func ReplyConnection(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)
	requestID := c.Params("requestId")

	var req ReplyConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Answer == "" {
		return badRequest(c, "answer is required")
	}

	request, err := Connect.Reply(c.Context(), accountID, requestID, req.Answer)
	if err != nil {
		return respondError(c, err)
	}

	pushToSession(request.FromSession, ws.WSMessage{
		Type:      ws.EventConnectionReply,
		Payload:   ws.ConnectionRequestPayload{Request: request},
		Timestamp: time.Now(),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    request,
	})
}

// CompleteConnection marks the handshake as established
func CompleteConnection(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)
	requestID := c.Params("requestId")

	request, err := Connect.Complete(c.Context(), accountID, requestID)
	if err != nil {
		return respondError(c, err)
	}

	msg := ws.WSMessage{
		Type:      ws.EventConnectionComplete,
		Payload:   ws.ConnectionRequestPayload{Request: request},
		Timestamp: time.Now(),
	}
	pushToSession(request.FromSession, msg)
	pushToSession(request.ToSession, msg)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    request,
	})
}

// ListIncomingConnections returns undelivered requests addressed to a session
func ListIncomingConnections(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	toSession := c.Query("session")
	if toSession == "" {
		return badRequest(c, "session query parameter is required")
	}

	requests, err := Connect.ListIncoming(c.Context(), accountID, toSession)
	if err != nil {
		return respondError(c, err)
	}
	if requests == nil {
		requests = []models.ConnectionRequest{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
	})
}

// GetConnectionStatus returns a request to one of its participants
func GetConnectionStatus(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)
	requestID := c.Params("requestId")

	request, err := Connect.Status(c.Context(), accountID, requestID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    request,
	})
}
