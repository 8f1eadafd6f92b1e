package models

import "time"

// Connection request statuses. Transitions are monotonic:
// sent -> replied -> completed, with sent also terminating via expiry.
const (
	ConnectionSent      = "sent"
	ConnectionReplied   = "replied"
	ConnectionCompleted = "completed"
)

// ConnectionRequest is the signaling handshake record relayed between two
// sessions. Offer and Answer are opaque transport payloads; the coordinator
// never interprets them. The owning accounts of both sessions are captured at
// open time so the participant gate survives session teardown.
type ConnectionRequest struct {
	ID           string    `json:"id" db:"id"`
	FromSession  string    `json:"fromSession" db:"from_session"`
	ToSession    string    `json:"toSession" db:"to_session"`
	FromAccount  string    `json:"-" db:"from_account"`
	ToAccount    string    `json:"-" db:"to_account"`
	FromUsername string    `json:"fromUsername" db:"from_username"`
	Offer        string    `json:"offer" db:"offer"`
	Answer       string    `json:"answer,omitempty" db:"answer"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Participant reports whether the given account owns either side of the
// handshake.
func (r *ConnectionRequest) Participant(accountID string) bool {
	return r.FromAccount == accountID || r.ToAccount == accountID
}
