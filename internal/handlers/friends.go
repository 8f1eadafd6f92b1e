package handlers

import (
	"github.com/Ogyeet10/chat-lol/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequestRequest represents the friend request body
type SendFriendRequestRequest struct {
	ToUsername string `json:"toUsername"`
}

// RespondFriendRequestRequest represents the friend request decision body
type RespondFriendRequestRequest struct {
	Decision string `json:"decision"` // "accepted" or "rejected"
}

// SendFriendRequest creates a pending friend request by username
func SendFriendRequest(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	var req SendFriendRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ToUsername == "" {
		return badRequest(c, "toUsername is required")
	}

	request, err := Friends.SendRequest(c.Context(), accountID, req.ToUsername)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    request,
	})
}

// RespondFriendRequest accepts or rejects a pending request
func RespondFriendRequest(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)
	requestID := c.Params("requestId")

	var req RespondFriendRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var accept bool
	switch req.Decision {
	case models.FriendRequestAccepted:
		accept = true
	case models.FriendRequestRejected:
		accept = false
	default:
		return badRequest(c, "decision must be \"accepted\" or \"rejected\"")
	}

	request, err := Friends.Respond(c.Context(), requestID, accountID, accept)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    request,
	})
}

// ListFriendRequests returns pending requests involving the caller
func ListFriendRequests(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	requests, err := Friends.ListRequests(c.Context(), accountID)
	if err != nil {
		return respondError(c, err)
	}
	if requests == nil {
		requests = []models.FriendRequestSummary{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
	})
}

// ListFriends returns the caller's friends
func ListFriends(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	accounts, err := Friends.ListFriends(c.Context(), accountID)
	if err != nil {
		return respondError(c, err)
	}

	friends := make([]models.AccountResponse, 0, len(accounts))
	for i := range accounts {
		friends = append(friends, accounts[i].ToResponse())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    friends,
	})
}

// Unfriend removes the friendship with the named account. Idempotent.
func Unfriend(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)
	username := c.Params("username")

	if err := Friends.Unfriend(c.Context(), accountID, username); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
