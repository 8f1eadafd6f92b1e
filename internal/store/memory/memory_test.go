package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mustAccount(t *testing.T, s *Store, id, username string) models.Account {
	t.Helper()
	acc, err := s.CreateAccount(context.Background(), models.Account{
		ID:        id,
		Username:  username,
		CreatedAt: t0,
	})
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", username, err)
	}
	return acc
}

func TestCreateAccountUsernameConflict(t *testing.T) {
	s := New()
	mustAccount(t, s, "a1", "alice")

	_, err := s.CreateAccount(context.Background(), models.Account{ID: "a2", Username: "alice"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate username: got %v, want ErrConflict", err)
	}
}

func TestTouchSessionOwnership(t *testing.T) {
	s := New()
	ctx := context.Background()

	sess := models.Session{Handle: "h1", AccountID: "a1", Active: true, CreatedAt: t0, LastHeartbeat: t0}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatal(err)
	}

	if err := s.TouchSession(ctx, "h1", "a2", t0.Add(time.Second)); !errors.Is(err, store.ErrUnauthorized) {
		t.Fatalf("touch by non-owner: got %v, want ErrUnauthorized", err)
	}

	got, err := s.GetSession(ctx, "h1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.LastHeartbeat.Equal(t0) {
		t.Fatalf("heartbeat moved by unauthorized touch: %v", got.LastHeartbeat)
	}

	if err := s.TouchSession(ctx, "missing", "a1", t0); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("touch missing: got %v, want ErrNotFound", err)
	}
}

func TestDeleteSessionIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateSession(ctx, models.Session{Handle: "h1", AccountID: "a1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSession(ctx, "h1", "a1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.DeleteSession(ctx, "h1", "a1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := s.DeleteSession(ctx, "h2", "a1"); err != nil {
		t.Fatalf("delete of never-created handle: %v", err)
	}
}

func TestFriendRequestPairUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	mustAccount(t, s, "a1", "alice")
	mustAccount(t, s, "a2", "bob")

	req := models.FriendRequest{ID: "r1", FromAccount: "a1", ToAccount: "a2", Status: models.FriendRequestPending, CreatedAt: t0}
	if _, err := s.CreateFriendRequest(ctx, req); err != nil {
		t.Fatal(err)
	}

	// Same pair in either direction is a duplicate while pending.
	_, err := s.CreateFriendRequest(ctx, models.FriendRequest{ID: "r2", FromAccount: "a2", ToAccount: "a1", Status: models.FriendRequestPending})
	if !errors.Is(err, store.ErrRequestExists) {
		t.Fatalf("reversed pending pair: got %v, want ErrRequestExists", err)
	}

	if _, err := s.RespondFriendRequest(ctx, "r1", false, t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	// Rejection frees the pair for a new attempt.
	if _, err := s.CreateFriendRequest(ctx, models.FriendRequest{ID: "r3", FromAccount: "a2", ToAccount: "a1", Status: models.FriendRequestPending}); err != nil {
		t.Fatalf("retry after rejection: %v", err)
	}
}

func TestRespondFriendRequestAcceptCreatesEdge(t *testing.T) {
	s := New()
	ctx := context.Background()
	mustAccount(t, s, "a1", "alice")
	mustAccount(t, s, "a2", "bob")

	req := models.FriendRequest{ID: "r1", FromAccount: "a2", ToAccount: "a1", Status: models.FriendRequestPending, CreatedAt: t0}
	if _, err := s.CreateFriendRequest(ctx, req); err != nil {
		t.Fatal(err)
	}

	got, err := s.RespondFriendRequest(ctx, "r1", true, t0.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.FriendRequestAccepted {
		t.Fatalf("status = %q, want accepted", got.Status)
	}
	if got.RespondedAt == nil {
		t.Fatal("RespondedAt not set")
	}

	for _, pair := range [][2]string{{"a1", "a2"}, {"a2", "a1"}} {
		ok, err := s.AreFriends(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("AreFriends(%s, %s) = false after accept", pair[0], pair[1])
		}
	}

	// A settled request cannot be responded to again.
	if _, err := s.RespondFriendRequest(ctx, "r1", false, t0); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("second respond: got %v, want ErrInvalidState", err)
	}

	// And a new request between friends is refused outright.
	_, err = s.CreateFriendRequest(ctx, models.FriendRequest{ID: "r2", FromAccount: "a1", ToAccount: "a2", Status: models.FriendRequestPending})
	if !errors.Is(err, store.ErrAlreadyFriends) {
		t.Fatalf("request between friends: got %v, want ErrAlreadyFriends", err)
	}
}

func TestConnectionRequestDuplicateOrderedPair(t *testing.T) {
	s := New()
	ctx := context.Background()

	req := models.ConnectionRequest{ID: "c1", FromSession: "h1", ToSession: "h2", Status: models.ConnectionSent, CreatedAt: t0}
	if _, err := s.CreateConnectionRequest(ctx, req); err != nil {
		t.Fatal(err)
	}

	_, err := s.CreateConnectionRequest(ctx, models.ConnectionRequest{ID: "c2", FromSession: "h1", ToSession: "h2", Status: models.ConnectionSent})
	if !errors.Is(err, store.ErrDuplicateRequest) {
		t.Fatalf("duplicate ordered pair: got %v, want ErrDuplicateRequest", err)
	}

	// The opposite direction is a different ordered pair.
	if _, err := s.CreateConnectionRequest(ctx, models.ConnectionRequest{ID: "c3", FromSession: "h2", ToSession: "h1", Status: models.ConnectionSent}); err != nil {
		t.Fatalf("reverse direction: %v", err)
	}

	// Completion is terminal, so the pair can be reused.
	if _, err := s.CompleteConnectionRequest(ctx, "c1", t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateConnectionRequest(ctx, models.ConnectionRequest{ID: "c4", FromSession: "h1", ToSession: "h2", Status: models.ConnectionSent}); err != nil {
		t.Fatalf("reopen after completion: %v", err)
	}
}

func TestReplyConnectionRequestOnce(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateConnectionRequest(ctx, models.ConnectionRequest{ID: "c1", FromSession: "h1", ToSession: "h2", Status: models.ConnectionSent, CreatedAt: t0}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReplyConnectionRequest(ctx, "c1", "answer-1", t0.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.ConnectionReplied || got.Answer != "answer-1" {
		t.Fatalf("after reply: status=%q answer=%q", got.Status, got.Answer)
	}

	if _, err := s.ReplyConnectionRequest(ctx, "c1", "answer-2", t0.Add(2*time.Second)); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("second reply: got %v, want ErrInvalidState", err)
	}

	kept, err := s.GetConnectionRequest(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if kept.Answer != "answer-1" {
		t.Fatalf("first answer overwritten: %q", kept.Answer)
	}
}

func TestCompleteConnectionRequestIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateConnectionRequest(ctx, models.ConnectionRequest{ID: "c1", FromSession: "h1", ToSession: "h2", Status: models.ConnectionSent, CreatedAt: t0}); err != nil {
		t.Fatal(err)
	}

	first, err := s.CompleteConnectionRequest(ctx, "c1", t0.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.CompleteConnectionRequest(ctx, "c1", t0.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != models.ConnectionCompleted || second.Status != models.ConnectionCompleted {
		t.Fatalf("statuses: %q, %q", first.Status, second.Status)
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("repeat completion moved UpdatedAt: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestPutLivenessPingSupersedes(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.PutLivenessPing(ctx, models.LivenessPing{ID: "p1", FromSession: "h1", ToSession: "h2", Status: models.PingSent, CreatedAt: t0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PutLivenessPing(ctx, models.LivenessPing{ID: "p2", FromSession: "h1", ToSession: "h2", Status: models.PingSent, CreatedAt: t0.Add(time.Second)}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetLivenessPing(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("superseded ping still readable: %v", err)
	}
	if _, err := s.GetLivenessPing(ctx, "p2"); err != nil {
		t.Fatalf("fresh ping: %v", err)
	}

	// A ping for the reverse pair is untouched by supersession.
	if _, err := s.PutLivenessPing(ctx, models.LivenessPing{ID: "p3", FromSession: "h2", ToSession: "h1", Status: models.PingSent, CreatedAt: t0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PutLivenessPing(ctx, models.LivenessPing{ID: "p4", FromSession: "h1", ToSession: "h2", Status: models.PingSent, CreatedAt: t0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetLivenessPing(ctx, "p3"); err != nil {
		t.Fatalf("reverse-pair ping superseded: %v", err)
	}
}

func TestSweepCutoffs(t *testing.T) {
	s := New()
	ctx := context.Background()

	stale := models.Session{Handle: "old", AccountID: "a1", LastHeartbeat: t0}
	fresh := models.Session{Handle: "new", AccountID: "a1", LastHeartbeat: t0.Add(time.Hour)}
	if err := s.CreateSession(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateSession(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	n, err := s.DeleteSessionsIdleSince(ctx, t0.Add(30*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("deleted %d sessions, want 1", n)
	}
	if _, err := s.GetSession(ctx, "new"); err != nil {
		t.Fatalf("fresh session swept: %v", err)
	}

	// Only still-"sent" connection requests are reclaimed.
	if _, err := s.CreateConnectionRequest(ctx, models.ConnectionRequest{ID: "c1", FromSession: "h1", ToSession: "h2", Status: models.ConnectionSent, CreatedAt: t0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateConnectionRequest(ctx, models.ConnectionRequest{ID: "c2", FromSession: "h3", ToSession: "h4", Status: models.ConnectionSent, CreatedAt: t0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReplyConnectionRequest(ctx, "c2", "answer", t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	n, err = s.DeleteExpiredConnectionRequests(ctx, t0.Add(5*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("reclaimed %d connection requests, want 1", n)
	}
	if _, err := s.GetConnectionRequest(ctx, "c2"); err != nil {
		t.Fatalf("replied request swept: %v", err)
	}
}

func TestListIncomingConnectionRequests(t *testing.T) {
	s := New()
	ctx := context.Background()

	reqs := []models.ConnectionRequest{
		{ID: "c1", FromSession: "h1", ToSession: "target", Status: models.ConnectionSent, CreatedAt: t0.Add(2 * time.Minute)},
		{ID: "c2", FromSession: "h2", ToSession: "target", Status: models.ConnectionSent, CreatedAt: t0.Add(time.Minute)},
		{ID: "c3", FromSession: "h3", ToSession: "other", Status: models.ConnectionSent, CreatedAt: t0.Add(time.Minute)},
		{ID: "c4", FromSession: "h4", ToSession: "target", Status: models.ConnectionSent, CreatedAt: t0.Add(-time.Hour)},
	}
	for _, req := range reqs {
		if _, err := s.CreateConnectionRequest(ctx, req); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListIncomingConnectionRequests(ctx, "target", t0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d requests, want 2", len(got))
	}
	if got[0].ID != "c2" || got[1].ID != "c1" {
		t.Fatalf("order: %s, %s", got[0].ID, got[1].ID)
	}
}
