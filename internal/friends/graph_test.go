package friends

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

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func newGraph(t *testing.T) (*Graph, *memory.Store) {
	t.Helper()
	st := memory.New()
	g := NewGraph(st, newFakeClock())

	ctx := context.Background()
	for _, acc := range []models.Account{
		{ID: "a1", Username: "alice"},
		{ID: "a2", Username: "bob"},
	} {
		if _, err := st.CreateAccount(ctx, acc); err != nil {
			t.Fatal(err)
		}
	}
	return g, st
}

func TestSendRequestValidation(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	if _, err := g.SendRequest(ctx, "a1", "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown target: got %v, want ErrNotFound", err)
	}
	if _, err := g.SendRequest(ctx, "a1", "alice"); !errors.Is(err, store.ErrInvalidArgument) {
		t.Fatalf("self request: got %v, want ErrInvalidArgument", err)
	}
}

func TestSendRequestSymmetricDuplicate(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	if _, err := g.SendRequest(ctx, "a1", "bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SendRequest(ctx, "a1", "bob"); !errors.Is(err, store.ErrRequestExists) {
		t.Fatalf("same direction duplicate: got %v, want ErrRequestExists", err)
	}
	if _, err := g.SendRequest(ctx, "a2", "alice"); !errors.Is(err, store.ErrRequestExists) {
		t.Fatalf("reversed duplicate: got %v, want ErrRequestExists", err)
	}
}

func TestRespondAddresseeOnly(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	req, err := g.SendRequest(ctx, "a1", "bob")
	if err != nil {
		t.Fatal(err)
	}

	// Neither the sender nor a third party may settle the request.
	if _, err := g.Respond(ctx, req.ID, "a1", true); !errors.Is(err, store.ErrUnauthorized) {
		t.Fatalf("respond by sender: got %v, want ErrUnauthorized", err)
	}
	if _, err := g.Respond(ctx, req.ID, "a3", true); !errors.Is(err, store.ErrUnauthorized) {
		t.Fatalf("respond by stranger: got %v, want ErrUnauthorized", err)
	}
	if _, err := g.Respond(ctx, "missing", "a2", true); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("respond to missing: got %v, want ErrNotFound", err)
	}
}

func TestAcceptCreatesSymmetricFriendship(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	req, err := g.SendRequest(ctx, "a1", "bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Respond(ctx, req.ID, "a2", true); err != nil {
		t.Fatal(err)
	}

	for _, pair := range [][2]string{{"a1", "a2"}, {"a2", "a1"}} {
		ok, err := g.AreFriends(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("AreFriends(%s, %s) = false", pair[0], pair[1])
		}
	}

	friends, err := g.ListFriends(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if len(friends) != 1 || friends[0].Username != "bob" {
		t.Fatalf("ListFriends(a1) = %v", friends)
	}
}

func TestRejectLeavesNoEdge(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	req, err := g.SendRequest(ctx, "a1", "bob")
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Respond(ctx, req.ID, "a2", false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.FriendRequestRejected {
		t.Fatalf("status = %q, want rejected", got.Status)
	}

	ok, err := g.AreFriends(ctx, "a1", "a2")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("rejection created a friendship")
	}

	// The pair may try again after a rejection.
	if _, err := g.SendRequest(ctx, "a2", "alice"); err != nil {
		t.Fatalf("retry after rejection: %v", err)
	}
}

func TestUnfriendThenReRequest(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	req, err := g.SendRequest(ctx, "a1", "bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Respond(ctx, req.ID, "a2", true); err != nil {
		t.Fatal(err)
	}

	if err := g.Unfriend(ctx, "a1", "bob"); err != nil {
		t.Fatal(err)
	}
	ok, err := g.AreFriends(ctx, "a1", "a2")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("still friends after unfriend")
	}

	// Unfriend is idempotent and the pair can start over.
	if err := g.Unfriend(ctx, "a1", "bob"); err != nil {
		t.Fatalf("second unfriend: %v", err)
	}
	if _, err := g.SendRequest(ctx, "a2", "alice"); err != nil {
		t.Fatalf("re-request after unfriend: %v", err)
	}
}

func TestListRequestsDirection(t *testing.T) {
	g, st := newGraph(t)
	ctx := context.Background()

	if _, err := st.CreateAccount(ctx, models.Account{ID: "a3", Username: "carol"}); err != nil {
		t.Fatal(err)
	}

	if _, err := g.SendRequest(ctx, "a1", "bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SendRequest(ctx, "a3", "alice"); err != nil {
		t.Fatal(err)
	}

	reqs, err := g.ListRequests(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	byUser := map[string]string{}
	for _, r := range reqs {
		byUser[r.Username] = r.Direction
	}
	if byUser["bob"] != "outgoing" {
		t.Fatalf("request to bob: direction %q", byUser["bob"])
	}
	if byUser["carol"] != "incoming" {
		t.Fatalf("request from carol: direction %q", byUser["carol"])
	}
}
