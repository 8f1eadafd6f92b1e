// Package session implements the session registry: one row per live client
// attachment, refreshed by heartbeats and read through a staleness filter.
package session

import (
	"context"
	"time"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
	"github.com/Ogyeet10/chat-lol/internal/utils"
)

type Registry struct {
	store      store.Store
	clock      store.Clock
	staleAfter time.Duration
}

func NewRegistry(st store.Store, clock store.Clock, staleAfter time.Duration) *Registry {
	if clock == nil {
		clock = store.RealClock{}
	}
	return &Registry{store: st, clock: clock, staleAfter: staleAfter}
}

// Register creates a fresh active session for the account and returns it.
func (r *Registry) Register(ctx context.Context, accountID string) (models.Session, error) {
	handle, err := utils.GenerateSessionHandle()
	if err != nil {
		return models.Session{}, err
	}

	now := r.clock.Now()
	sess := models.Session{
		Handle:        handle,
		AccountID:     accountID,
		Active:        true,
		CreatedAt:     now,
		LastHeartbeat: now,
	}
	if err := r.store.CreateSession(ctx, sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Heartbeat refreshes the session's liveness. The failure is reported to the
// caller rather than retried; the client's heartbeat loop stops on error and
// the session reverts to not-live.
func (r *Registry) Heartbeat(ctx context.Context, handle, accountID string) error {
	return r.store.TouchSession(ctx, handle, accountID, r.clock.Now())
}

// Deactivate removes the session. Idempotent: a handle that is already gone
// succeeds.
func (r *Registry) Deactivate(ctx context.Context, handle, accountID string) error {
	return r.store.DeleteSession(ctx, handle, accountID)
}

// ListLive returns the account's own sessions that are within the staleness
// window right now.
func (r *Registry) ListLive(ctx context.Context, accountID string) ([]models.Session, error) {
	return r.store.ListLiveSessions(ctx, accountID, r.clock.Now().Add(-r.staleAfter))
}

// ListLiveForUsername returns another account's live sessions for presence
// discovery. Any authenticated account may browse presence; friendship is
// only required for signaling, which the connect coordinator enforces.
func (r *Registry) ListLiveForUsername(ctx context.Context, username string) ([]models.Session, error) {
	acc, err := r.store.GetAccountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return r.ListLive(ctx, acc.ID)
}

// LiveSession fetches a session and applies the staleness filter, returning
// ErrNotFound for rows that exist but are logically dead.
func (r *Registry) LiveSession(ctx context.Context, handle string) (models.Session, error) {
	sess, err := r.store.GetSession(ctx, handle)
	if err != nil {
		return models.Session{}, err
	}
	if !sess.Live(r.clock.Now(), r.staleAfter) {
		return models.Session{}, store.ErrNotFound
	}
	return sess, nil
}

// StaleAfter exposes the staleness window for callers that report it.
func (r *Registry) StaleAfter() time.Duration {
	return r.staleAfter
}
