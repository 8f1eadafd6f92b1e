package middleware

import (
	"strings"

	"github.com/Ogyeet10/chat-lol/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the bearer credential from the cookie, with an
// Authorization header fallback for non-browser clients
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies("token")
	if tokenString == "" {
		if header := c.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Unauthorized - No token provided",
			"code":    "unauthorized",
		})
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Unauthorized - Invalid token",
			"code":    "unauthorized",
		})
	}

	// Store account info in context
	c.Locals("accountID", claims.AccountID)
	c.Locals("username", claims.Username)

	return c.Next()
}

// GetAccountID gets the authenticated account id from context
func GetAccountID(c *fiber.Ctx) string {
	accountID, ok := c.Locals("accountID").(string)
	if !ok {
		return ""
	}
	return accountID
}

// GetUsername gets the authenticated username from context
func GetUsername(c *fiber.Ctx) string {
	username, ok := c.Locals("username").(string)
	if !ok {
		return ""
	}
	return username
}
