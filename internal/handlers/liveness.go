package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	ws "github.com/Ogyeet10/chat-lol/internal/websocket"
)

// SendLivenessPingRequest represents the probe body
type SendLivenessPingRequest struct {
	FromSession string `json:"fromSession"`
	ToSession   string `json:"toSession"`
}

// SendLivenessPing probes a target session for an active round-trip
func SendLivenessPing(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	var req SendLivenessPingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.FromSession == "" || req.ToSession == "" {
		return badRequest(c, "fromSession and toSession are required")
	}

	ping, err := Prober.Ping(c.Context(), req.FromSession, req.ToSession, accountID)
	if err != nil {
		return respondError(c, err)
	}

	pushToSession(ping.ToSession, ws.WSMessage{
		Type: ws.EventLivenessPing,
		Payload: ws.LivenessPingPayload{
			PingID:      ping.ID,
			FromSession: ping.FromSession,
		},
		Timestamp: time.Now(),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    ping,
	})
}

// RespondLivenessPing acknowledges a probe from the target session
func RespondLivenessPing(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)
	pingID := c.Params("pingId")

	if err := Prober.Respond(c.Context(), pingID, accountID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// PollLivenessPing reads a probe's status. A responded probe is consumed by
// the read; a missing probe reports data null so the prober treats it as a
// timeout.
func PollLivenessPing(c *fiber.Ctx) error {
	pingID := c.Params("pingId")

	status, ok, err := Prober.Poll(c.Context(), pingID)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    nil,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"status": status},
	})
}
