package store

import (
	"context"
	"time"

	"github.com/Ogyeet10/chat-lol/internal/models"
)

// Store is the single durable state behind the coordinator. Implementations
// must make every mutating method a single atomic unit: the precondition a
// method documents is checked inside the same transaction (or critical
// section) as its write, never by the caller beforehand.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, acc models.Account) (models.Account, error) // ErrConflict on taken username
	GetAccountByID(ctx context.Context, id string) (models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (models.Account, error)

	// Sessions. TouchSession refreshes last_heartbeat and re-arms the active
	// flag only when the handle exists and is owned by accountID; a failed
	// call must not mutate the row.
	CreateSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context, handle string) (models.Session, error)
	TouchSession(ctx context.Context, handle, accountID string, now time.Time) error // ErrNotFound, ErrUnauthorized
	DeleteSession(ctx context.Context, handle, accountID string) error               // ErrUnauthorized; nil if already gone
	ListLiveSessions(ctx context.Context, accountID string, liveAfter time.Time) ([]models.Session, error)
	DeleteSessionsIdleSince(ctx context.Context, cutoff time.Time) (int, error)

	// Friend graph. CreateFriendRequest checks the edge (both canonical
	// orders) and any pending request (either direction) atomically with the
	// insert. RespondFriendRequest flips status only while pending and, on
	// accept, inserts the canonical edge in the same unit.
	CreateFriendRequest(ctx context.Context, req models.FriendRequest) (models.FriendRequest, error) // ErrAlreadyFriends, ErrRequestExists
	GetFriendRequest(ctx context.Context, id string) (models.FriendRequest, error)
	RespondFriendRequest(ctx context.Context, id string, accept bool, now time.Time) (models.FriendRequest, error) // ErrNotFound, ErrInvalidState
	ListPendingFriendRequests(ctx context.Context, accountID string) ([]models.FriendRequest, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
	ListFriends(ctx context.Context, accountID string) ([]models.Account, error)
	DeleteFriendEdge(ctx context.Context, a, b string) error // nil if absent

	// Connection requests. CreateConnectionRequest rejects a second
	// non-terminal request for the same ordered (from,to) session pair
	// atomically with the insert. ReplyConnectionRequest stores the answer
	// only while status is exactly "sent".
	CreateConnectionRequest(ctx context.Context, req models.ConnectionRequest) (models.ConnectionRequest, error) // ErrDuplicateRequest
	GetConnectionRequest(ctx context.Context, id string) (models.ConnectionRequest, error)
	ReplyConnectionRequest(ctx context.Context, id, answer string, now time.Time) (models.ConnectionRequest, error) // ErrNotFound, ErrInvalidState
	CompleteConnectionRequest(ctx context.Context, id string, now time.Time) (models.ConnectionRequest, error)     // idempotent; ErrNotFound
	ListIncomingConnectionRequests(ctx context.Context, toSession string, sentAfter time.Time) ([]models.ConnectionRequest, error)
	DeleteExpiredConnectionRequests(ctx context.Context, cutoff time.Time) (int, error)

	// Liveness pings. PutLivenessPing deletes any earlier ping for the same
	// (from,to) pair in the same unit as the insert.
	PutLivenessPing(ctx context.Context, ping models.LivenessPing) (models.LivenessPing, error)
	GetLivenessPing(ctx context.Context, id string) (models.LivenessPing, error)
	RespondLivenessPing(ctx context.Context, id string) error // nil if missing
	DeleteLivenessPing(ctx context.Context, id string) error  // nil if missing
	DeleteExpiredLivenessPings(ctx context.Context, cutoff time.Time) (int, error)
}
