package models

import "time"

// Liveness ping statuses
const (
	PingSent      = "sent"
	PingResponded = "responded"
)

// LivenessPing is a short-lived probe proving a specific peer session can
// still round-trip right now, independent of heartbeat recency. A new ping
// from the same pinger to the same target supersedes the old one.
type LivenessPing struct {
	ID          string    `json:"id" db:"id"`
	FromSession string    `json:"fromSession" db:"from_session"`
	ToSession   string    `json:"toSession" db:"to_session"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
