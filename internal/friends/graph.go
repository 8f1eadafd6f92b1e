// Package friends implements the friend graph: pending directed requests and
// the symmetric edges produced by accepting them. The graph is the sole
// authorization gate for signaling.
package friends

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

type Graph struct {
	store store.Store
	clock store.Clock
}

func NewGraph(st store.Store, clock store.Clock) *Graph {
	if clock == nil {
		clock = store.RealClock{}
	}
	return &Graph{store: st, clock: clock}
}

// SendRequest creates a pending friend request toward the named account.
func (g *Graph) SendRequest(ctx context.Context, fromAccountID, toUsername string) (models.FriendRequest, error) {
	to, err := g.store.GetAccountByUsername(ctx, toUsername)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if to.ID == fromAccountID {
		return models.FriendRequest{}, store.ErrInvalidArgument
	}

	req := models.FriendRequest{
		ID:          uuid.NewString(),
		FromAccount: fromAccountID,
		ToAccount:   to.ID,
		Status:      models.FriendRequestPending,
		CreatedAt:   g.clock.Now(),
	}
	return g.store.CreateFriendRequest(ctx, req)
}

// Respond accepts or rejects a pending request. Only the addressee may act,
// and accepting creates the friend edge in the same atomic unit as the
// status flip.
func (g *Graph) Respond(ctx context.Context, requestID, actingAccountID string, accept bool) (models.FriendRequest, error) {
	req, err := g.store.GetFriendRequest(ctx, requestID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if req.ToAccount != actingAccountID {
		return models.FriendRequest{}, store.ErrUnauthorized
	}
	return g.store.RespondFriendRequest(ctx, requestID, accept, g.clock.Now())
}

// AreFriends is the authorization predicate used by the connect coordinator.
func (g *Graph) AreFriends(ctx context.Context, a, b string) (bool, error) {
	return g.store.AreFriends(ctx, a, b)
}

// Unfriend removes the edge toward the named account. Idempotent.
func (g *Graph) Unfriend(ctx context.Context, actingAccountID, otherUsername string) error {
	other, err := g.store.GetAccountByUsername(ctx, otherUsername)
	if err != nil {
		return err
	}
	return g.store.DeleteFriendEdge(ctx, actingAccountID, other.ID)
}

// ListFriends returns the account's friends.
func (g *Graph) ListFriends(ctx context.Context, accountID string) ([]models.Account, error) {
	return g.store.ListFriends(ctx, accountID)
}

// ListRequests returns pending requests involving the account, annotated
// with direction and the other party's username.
func (g *Graph) ListRequests(ctx context.Context, accountID string) ([]models.FriendRequestSummary, error) {
	reqs, err := g.store.ListPendingFriendRequests(ctx, accountID)
	if err != nil {
		return nil, err
	}

	out := make([]models.FriendRequestSummary, 0, len(reqs))
	for _, req := range reqs {
		summary := models.FriendRequestSummary{
			ID:        req.ID,
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
		}
		otherID := req.FromAccount
		summary.Direction = "incoming"
		if req.FromAccount == accountID {
			otherID = req.ToAccount
			summary.Direction = "outgoing"
		}
		other, err := g.store.GetAccountByID(ctx, otherID)
		if err != nil {
			if err == store.ErrNotFound {
				continue
			}
			return nil, err
		}
		summary.Username = other.Username
		out = append(out, summary)
	}
	return out, nil
}
