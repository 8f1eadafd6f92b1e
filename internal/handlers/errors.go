package handlers

import (
	"errors"

	"github.com/Ogyeet10/chat-lol/internal/store"

	"github.com/gofiber/fiber/v2"
)

// kindMapping pins every failure kind to a status and a stable code. The code
// is part of the contract: the UI distinguishes "not friends" from "already
// in progress" from "session gone" by it.
var kindMapping = []struct {
	err    error
	status int
	code   string
}{
	{store.ErrUnauthorized, fiber.StatusUnauthorized, "unauthorized"},
	{store.ErrForbidden, fiber.StatusForbidden, "forbidden"},
	{store.ErrNotFound, fiber.StatusNotFound, "not_found"},
	{store.ErrInvalidState, fiber.StatusBadRequest, "invalid_state"},
	{store.ErrInvalidArgument, fiber.StatusBadRequest, "invalid_argument"},
	{store.ErrConflict, fiber.StatusConflict, "conflict"},
	{store.ErrAlreadyFriends, fiber.StatusConflict, "already_friends"},
	{store.ErrRequestExists, fiber.StatusConflict, "request_exists"},
	{store.ErrDuplicateRequest, fiber.StatusConflict, "duplicate_request"},
	{store.ErrTargetUnavailable, fiber.StatusConflict, "target_unavailable"},
}

// respondError maps a service failure to its HTTP shape.
func respondError(c *fiber.Ctx, err error) error {
	for _, kind := range kindMapping {
		if errors.Is(err, kind.err) {
			return c.Status(kind.status).JSON(fiber.Map{
				"success": false,
				"error":   kind.err.Error(),
				"code":    kind.code,
			})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Database error",
		"code":    "internal",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    "bad_request",
	})
}
