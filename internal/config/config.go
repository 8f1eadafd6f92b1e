package config

import (
	"log"
	"os"
	"time"
)

// Config carries everything the server reads from the environment. The
// staleness and expiry windows default to the values the clients are tuned
// for: a 30s heartbeat period with 2x margin, a 5 minute handshake window,
// and a 3s probe timeout with generous server-side slack.
type Config struct {
	Port         string
	DatabaseURL  string
	JWTSecret    string
	StoreDriver  string // "postgres" or "memory"
	AllowOrigins string

	SessionStaleAfter  time.Duration // session counts as dead past this heartbeat age
	SessionDeleteAfter time.Duration // sweep physically deletes rows past this age
	ConnectionExpiry   time.Duration // "sent" requests older than this are reclaimed
	PingExpiry         time.Duration // liveness pings older than this are reclaimed
	SweepInterval      time.Duration
}

// Load reads the environment. Call after godotenv has run.
func Load() Config {
	return Config{
		Port:         getenv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		StoreDriver:  getenv("STORE_DRIVER", "postgres"),
		AllowOrigins: getenv("ALLOW_ORIGINS", "http://localhost:3000"),

		SessionStaleAfter:  getduration("SESSION_STALE_AFTER", 60*time.Second),
		SessionDeleteAfter: getduration("SESSION_DELETE_AFTER", time.Hour),
		ConnectionExpiry:   getduration("CONNECTION_EXPIRY", 5*time.Minute),
		PingExpiry:         getduration("PING_EXPIRY", 30*time.Second),
		SweepInterval:      getduration("SWEEP_INTERVAL", 30*time.Second),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s %q, using default %v", key, v, fallback)
		return fallback
	}
	return d
}
