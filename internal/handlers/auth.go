package handlers

import (
	"time"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SignupRequest represents signup request body
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles account creation
func Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return respondError(c, err)
	}

	account, err := Store.CreateAccount(c.Context(), models.Account{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return respondError(c, err)
	}

	token, err := utils.GenerateToken(account.ID, account.Username)
	if err != nil {
		return respondError(c, err)
	}
	setTokenCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"account": account.ToResponse(),
			"token":   token,
		},
	})
}

// Login handles credential issuance
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	account, err := Store.GetAccountByUsername(c.Context(), req.Username)
	if err != nil || !utils.CheckPassword(account.Password, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid username or password",
			"code":    "unauthorized",
		})
	}

	token, err := utils.GenerateToken(account.ID, account.Username)
	if err != nil {
		return respondError(c, err)
	}
	setTokenCookie(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"account": account.ToResponse(),
			"token":   token,
		},
	})
}

// Logout clears the credential cookie
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   -1, // Delete cookie
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetMe returns the current authenticated account
func GetMe(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(string)

	account, err := Store.GetAccountByID(c.Context(), accountID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    account.ToResponse(),
	})
}

func setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
		MaxAge:   86400, // 24 hours
	})
}
