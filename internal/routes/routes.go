package routes

import (
	"github.com/Ogyeet10/chat-lol/internal/handlers"
	"github.com/Ogyeet10/chat-lol/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// InitWebSocket initializes the WebSocket hub
func InitWebSocket() {
	handlers.InitWebSocket()
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Rendezvous API is running",
		})
	})

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.StrictRateLimiter(), handlers.Signup)
	auth.Post("/login", middleware.StrictRateLimiter(), handlers.Login)
	auth.Post("/logout", middleware.AuthMiddleware, handlers.Logout)
	auth.Get("/me", middleware.AuthMiddleware, handlers.GetMe)

	// Session routes (protected)
	sessions := api.Group("/sessions", middleware.AuthMiddleware)
	sessions.Post("/", handlers.RegisterSession)
	sessions.Get("/", handlers.ListLiveSessions)
	sessions.Post("/:handle/heartbeat", handlers.Heartbeat)
	sessions.Delete("/:handle", handlers.DeactivateSession)

	// Presence browsing (protected)
	api.Get("/users/:username/sessions", middleware.AuthMiddleware, handlers.ListOtherLiveSessions)

	// Friend routes (protected)
	friends := api.Group("/friends", middleware.AuthMiddleware)
	friends.Post("/requests", middleware.ModerateRateLimiter(), handlers.SendFriendRequest)
	friends.Get("/requests", handlers.ListFriendRequests)
	friends.Post("/requests/:requestId/respond", handlers.RespondFriendRequest)
	friends.Get("/", handlers.ListFriends)
	friends.Delete("/:username", handlers.Unfriend)

	// Signaling routes (protected)
	connect := api.Group("/connect", middleware.AuthMiddleware)
	connect.Post("/", middleware.ModerateRateLimiter(), handlers.OpenConnection)
	connect.Post("/:requestId/reply", handlers.ReplyConnection)
	connect.Post("/:requestId/complete", handlers.CompleteConnection)
	connect.Get("/incoming", handlers.ListIncomingConnections)
	connect.Get("/:requestId", handlers.GetConnectionStatus)

	// Liveness probe routes. Poll is public: the prober hands the ping id to
	// its peer out of band and the id itself is the capability.
	liveness := api.Group("/liveness")
	liveness.Post("/", middleware.AuthMiddleware, handlers.SendLivenessPing)
	liveness.Post("/:pingId/respond", middleware.AuthMiddleware, handlers.RespondLivenessPing)
	liveness.Get("/:pingId", handlers.PollLivenessPing)

	// WebSocket route (protected)
	api.Get("/ws", middleware.AuthMiddleware, handlers.WebSocketUpgrade, websocket.New(handlers.WebSocketHandler))

	// WebSocket stats (protected, for debugging)
	api.Get("/ws/stats", middleware.AuthMiddleware, handlers.GetWebSocketStats)
}
