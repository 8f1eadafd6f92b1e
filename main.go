package main

import (
	"context"
	"log"

	"github.com/Ogyeet10/chat-lol/internal/config"
	"github.com/Ogyeet10/chat-lol/internal/connect"
	"github.com/Ogyeet10/chat-lol/internal/database"
	"github.com/Ogyeet10/chat-lol/internal/friends"
	"github.com/Ogyeet10/chat-lol/internal/handlers"
	"github.com/Ogyeet10/chat-lol/internal/liveness"
	"github.com/Ogyeet10/chat-lol/internal/routes"
	"github.com/Ogyeet10/chat-lol/internal/session"
	"github.com/Ogyeet10/chat-lol/internal/store"
	"github.com/Ogyeet10/chat-lol/internal/store/memory"
	"github.com/Ogyeet10/chat-lol/internal/store/postgres"
	"github.com/Ogyeet10/chat-lol/internal/sweeper"
	"github.com/Ogyeet10/chat-lol/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	utils.SetJWTSecret([]byte(cfg.JWTSecret))

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer database.Close()

	clock := store.RealClock{}
	sessions := session.NewRegistry(st, clock, cfg.SessionStaleAfter)
	graph := friends.NewGraph(st, clock)
	prober := liveness.NewProber(st, sessions, clock)
	coordinator := connect.NewCoordinator(st, sessions, graph, clock, cfg.ConnectionExpiry)

	handlers.Init(st, sessions, graph, prober, coordinator)
	routes.InitWebSocket()

	sw := sweeper.New(st, clock, cfg.SweepInterval, cfg.SessionDeleteAfter, cfg.ConnectionExpiry, cfg.PingExpiry)
	sw.Start()
	defer sw.Stop()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Rendezvous API v1.0",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(app)

	log.Printf("🚀 Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.StoreDriver == "memory" {
		log.Println("Using in-memory store")
		return memory.New(), nil
	}

	if err := database.Connect(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(context.Background(), database.Pool); err != nil {
		return nil, err
	}
	return postgres.New(database.Pool), nil
}
