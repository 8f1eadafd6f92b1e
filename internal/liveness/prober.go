// Package liveness implements the active round-trip probe. Heartbeat recency
// proves a session's loop is running, not that it can join a new handshake
// right now; a ping round-trip proves that, so clients probe before opening a
// connection request.
package liveness

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/session"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

type Prober struct {
	store    store.Store
	sessions *session.Registry
	clock    store.Clock
}

func NewProber(st store.Store, sessions *session.Registry, clock store.Clock) *Prober {
	if clock == nil {
		clock = store.RealClock{}
	}
	return &Prober{store: st, sessions: sessions, clock: clock}
}

// Ping creates a fresh probe from the caller's session toward the target,
// superseding any earlier probe for the same pair.
func (p *Prober) Ping(ctx context.Context, fromSession, toSession, actingAccountID string) (models.LivenessPing, error) {
	own, err := p.sessions.LiveSession(ctx, fromSession)
	if err != nil {
		return models.LivenessPing{}, store.ErrUnauthorized
	}
	if own.AccountID != actingAccountID {
		return models.LivenessPing{}, store.ErrUnauthorized
	}

	ping := models.LivenessPing{
		ID:          uuid.NewString(),
		FromSession: fromSession,
		ToSession:   toSession,
		Status:      models.PingSent,
		CreatedAt:   p.clock.Now(),
	}
	return p.store.PutLivenessPing(ctx, ping)
}

// Respond marks the probe answered. A late or duplicate response, or one for
// a superseded ping, is a harmless no-op.
func (p *Prober) Respond(ctx context.Context, pingID, actingAccountID string) error {
	ping, err := p.store.GetLivenessPing(ctx, pingID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil
		}
		return err
	}

	target, err := p.store.GetSession(ctx, ping.ToSession)
	if err != nil || target.AccountID != actingAccountID {
		// Only the probed session's owner can answer; anyone else is treated
		// like a late response.
		return nil
	}
	return p.store.RespondLivenessPing(ctx, pingID)
}

// Poll reads the probe's status. A responded probe is consumed by the read;
// a missing probe reports ok=false and the caller treats it like a timeout.
func (p *Prober) Poll(ctx context.Context, pingID string) (string, bool, error) {
	ping, err := p.store.GetLivenessPing(ctx, pingID)
	if err != nil {
		if err == store.ErrNotFound {
			return "", false, nil
		}
		return "", false, err
	}

	if ping.Status == models.PingResponded {
		if err := p.store.DeleteLivenessPing(ctx, pingID); err != nil {
			return "", false, err
		}
	}
	return ping.Status, true, nil
}
