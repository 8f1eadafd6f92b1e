package models

import "time"

// Session represents one live client attachment of an account. An account may
// hold several concurrent sessions (multi-device); the handle is the only
// identifier clients ever exchange.
type Session struct {
	Handle        string    `json:"handle" db:"handle"`
	AccountID     string    `json:"accountId" db:"account_id"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	LastHeartbeat time.Time `json:"lastHeartbeat" db:"last_heartbeat"`
}

// Live reports whether the session counts as alive at the given instant.
// A row that exists but has not heartbeated within staleAfter is dead for
// every read path, even before the sweeper physically removes it.
func (s *Session) Live(now time.Time, staleAfter time.Duration) bool {
	return s.Active && now.Sub(s.LastHeartbeat) < staleAfter
}
