package models

import "time"

// Friend request statuses
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

// FriendRequest is a directed request from one account to another. At most
// one pending request may exist between any unordered pair, in either
// direction.
type FriendRequest struct {
	ID          string     `json:"id" db:"id"`
	FromAccount string     `json:"fromAccount" db:"from_account"`
	ToAccount   string     `json:"toAccount" db:"to_account"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	RespondedAt *time.Time `json:"respondedAt,omitempty" db:"responded_at"`
}

// FriendEdge is the symmetric friendship relation, stored once in canonical
// order so existence lookups are a single indexed read.
type FriendEdge struct {
	AccountLow  string    `json:"accountLow" db:"account_low"`
	AccountHigh string    `json:"accountHigh" db:"account_high"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// CanonicalPair orders two account ids so (a,b) and (b,a) map to the same
// edge key.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// FriendRequestSummary includes the other party's username for listings
type FriendRequestSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Direction string    `json:"direction"` // incoming or outgoing
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
