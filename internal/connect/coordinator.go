// Package connect implements the signaling state machine. A connection
// request carries an opaque offer from one session to another, collects the
// counter-payload, and is marked completed once either side reports the
// direct channel open. Transitions are monotonic: sent -> replied ->
// completed, with sent also terminating via expiry.
package connect

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Ogyeet10/chat-lol/internal/friends"
	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/session"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

type Coordinator struct {
	store    store.Store
	sessions *session.Registry
	friends  *friends.Graph
	clock    store.Clock
	expiry   time.Duration
}

func NewCoordinator(st store.Store, sessions *session.Registry, graph *friends.Graph, clock store.Clock, expiry time.Duration) *Coordinator {
	if clock == nil {
		clock = store.RealClock{}
	}
	return &Coordinator{store: st, sessions: sessions, friends: graph, clock: clock, expiry: expiry}
}

// Open creates a new request from the caller's session toward the target.
// Preconditions, in order, each with its own failure kind:
//  1. the acting account owns a live fromSession (ErrNotFound / ErrUnauthorized)
//  2. toSession exists and is live (ErrTargetUnavailable)
//  3. the owning accounts are friends (ErrForbidden)
//  4. no non-terminal request exists for this ordered session pair
//     (ErrDuplicateRequest, checked atomically with the insert)
//
// A simultaneous open in the opposite direction is a different ordered pair
// and is deliberately not deduplicated; clients break the tie by letting the
// lexicographically lower session handle act as initiator.
func (c *Coordinator) Open(ctx context.Context, actingAccountID, fromSession, toSession, offer string) (models.ConnectionRequest, error) {
	from, err := c.sessions.LiveSession(ctx, fromSession)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if from.AccountID != actingAccountID {
		return models.ConnectionRequest{}, store.ErrUnauthorized
	}

	to, err := c.sessions.LiveSession(ctx, toSession)
	if err != nil {
		return models.ConnectionRequest{}, store.ErrTargetUnavailable
	}

	ok, err := c.friends.AreFriends(ctx, from.AccountID, to.AccountID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if !ok {
		return models.ConnectionRequest{}, store.ErrForbidden
	}

	acc, err := c.store.GetAccountByID(ctx, from.AccountID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}

	now := c.clock.Now()
	req := models.ConnectionRequest{
		ID:           uuid.NewString(),
		FromSession:  fromSession,
		ToSession:    toSession,
		FromAccount:  from.AccountID,
		ToAccount:    to.AccountID,
		FromUsername: acc.Username,
		Offer:        offer,
		Status:       models.ConnectionSent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return c.store.CreateConnectionRequest(ctx, req)
}

// Reply stores the counter-payload. Only the target session's owner may
// reply, and only while the request is exactly "sent"; a second reply fails
// ErrInvalidState and leaves the first answer intact.
func (c *Coordinator) Reply(ctx context.Context, actingAccountID, requestID, answer string) (models.ConnectionRequest, error) {
	req, err := c.visible(ctx, requestID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if req.ToAccount != actingAccountID {
		return models.ConnectionRequest{}, store.ErrUnauthorized
	}
	return c.store.ReplyConnectionRequest(ctx, requestID, answer, c.clock.Now())
}

// Complete marks the handshake done. Either participant may call it, any
// number of times; it is a bookkeeping marker and gates nothing further.
func (c *Coordinator) Complete(ctx context.Context, actingAccountID, requestID string) (models.ConnectionRequest, error) {
	req, err := c.visible(ctx, requestID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if !req.Participant(actingAccountID) {
		return models.ConnectionRequest{}, store.ErrUnauthorized
	}
	return c.store.CompleteConnectionRequest(ctx, requestID, c.clock.Now())
}

// ListIncoming returns the "sent" requests addressed to the caller's session.
func (c *Coordinator) ListIncoming(ctx context.Context, actingAccountID, toSession string) ([]models.ConnectionRequest, error) {
	sess, err := c.store.GetSession(ctx, toSession)
	if err != nil {
		return nil, store.ErrUnauthorized
	}
	if sess.AccountID != actingAccountID {
		return nil, store.ErrUnauthorized
	}
	return c.store.ListIncomingConnectionRequests(ctx, toSession, c.clock.Now().Add(-c.expiry))
}

// Status returns the request to one of its two participants.
func (c *Coordinator) Status(ctx context.Context, actingAccountID, requestID string) (models.ConnectionRequest, error) {
	req, err := c.visible(ctx, requestID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if !req.Participant(actingAccountID) {
		return models.ConnectionRequest{}, store.ErrUnauthorized
	}
	return req, nil
}

// visible fetches a request, treating a "sent" row past the expiry window as
// already gone: the sweep is allowed to lag, the read paths are not.
func (c *Coordinator) visible(ctx context.Context, requestID string) (models.ConnectionRequest, error) {
	req, err := c.store.GetConnectionRequest(ctx, requestID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if req.Status == models.ConnectionSent && c.clock.Now().Sub(req.CreatedAt) >= c.expiry {
		return models.ConnectionRequest{}, store.ErrNotFound
	}
	return req, nil
}
