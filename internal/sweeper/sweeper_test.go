package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
	"github.com/Ogyeet10/chat-lol/internal/store/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func TestSweepReclaimsOnlyExpired(t *testing.T) {
	st := memory.New()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: t0}
	ctx := context.Background()

	s := New(st, clock, time.Minute, time.Hour, 5*time.Minute, 30*time.Second)

	// One session long dead, one merely stale.
	if err := st.CreateSession(ctx, models.Session{Handle: "dead", AccountID: "a1", LastHeartbeat: t0.Add(-2 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := st.CreateSession(ctx, models.Session{Handle: "stale", AccountID: "a1", LastHeartbeat: t0.Add(-5 * time.Minute)}); err != nil {
		t.Fatal(err)
	}

	// One connection request past the offer window, one fresh, one replied.
	conns := []models.ConnectionRequest{
		{ID: "c1", FromSession: "h1", ToSession: "h2", Status: models.ConnectionSent, CreatedAt: t0.Add(-10 * time.Minute)},
		{ID: "c2", FromSession: "h3", ToSession: "h4", Status: models.ConnectionSent, CreatedAt: t0.Add(-time.Minute)},
		{ID: "c3", FromSession: "h5", ToSession: "h6", Status: models.ConnectionSent, CreatedAt: t0.Add(-10 * time.Minute)},
	}
	for _, req := range conns {
		if _, err := st.CreateConnectionRequest(ctx, req); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.ReplyConnectionRequest(ctx, "c3", "answer", t0); err != nil {
		t.Fatal(err)
	}

	// One ping past its window, one fresh.
	if _, err := st.PutLivenessPing(ctx, models.LivenessPing{ID: "p1", FromSession: "h1", ToSession: "h2", Status: models.PingSent, CreatedAt: t0.Add(-time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.PutLivenessPing(ctx, models.LivenessPing{ID: "p2", FromSession: "h3", ToSession: "h4", Status: models.PingSent, CreatedAt: t0.Add(-time.Second)}); err != nil {
		t.Fatal(err)
	}

	s.Sweep(ctx)

	if _, err := st.GetSession(ctx, "dead"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("dead session survived: %v", err)
	}
	if _, err := st.GetSession(ctx, "stale"); err != nil {
		t.Fatalf("stale-but-recent session swept: %v", err)
	}

	if _, err := st.GetConnectionRequest(ctx, "c1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expired sent request survived: %v", err)
	}
	if _, err := st.GetConnectionRequest(ctx, "c2"); err != nil {
		t.Fatalf("fresh request swept: %v", err)
	}
	if _, err := st.GetConnectionRequest(ctx, "c3"); err != nil {
		t.Fatalf("replied request swept: %v", err)
	}

	if _, err := st.GetLivenessPing(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("old ping survived: %v", err)
	}
	if _, err := st.GetLivenessPing(ctx, "p2"); err != nil {
		t.Fatalf("fresh ping swept: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	st := memory.New()
	s := New(st, nil, 10*time.Millisecond, time.Hour, 5*time.Minute, 30*time.Second)
	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()
}
