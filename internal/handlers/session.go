package handlers

import (
	"github.com/Ogyeet10/chat-lol/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RegisterSession creates a new session for the authenticated account
func RegisterSession(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	sess, err := Sessions.Register(c.Context(), accountID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    sess,
	})
}

// Heartbeat refreshes a session's liveness
func Heartbeat(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)
	handle := c.Params("handle")

	if err := Sessions.Heartbeat(c.Context(), handle, accountID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// DeactivateSession removes a session. Idempotent.
func DeactivateSession(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)
	handle := c.Params("handle")

	if err := Sessions.Deactivate(c.Context(), handle, accountID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// ListLiveSessions returns the caller's own live sessions
func ListLiveSessions(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	sessions, err := Sessions.ListLive(c.Context(), accountID)
	if err != nil {
		return respondError(c, err)
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    sessions,
	})
}

// ListOtherLiveSessions returns another account's live sessions for presence
// discovery. Presence browsing is open to any authenticated account.
func ListOtherLiveSessions(c *fiber.Ctx) error {
	username := c.Params("username")

	sessions, err := Sessions.ListLiveForUsername(c.Context(), username)
	if err != nil {
		return respondError(c, err)
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    sessions,
	})
}
