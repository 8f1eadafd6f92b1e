// Package memory holds the whole coordinator state in process memory behind a
// single mutex. It backs the test suite and the STORE_DRIVER=memory dev mode;
// the mutex is the transaction boundary, so every Store method is atomic the
// same way the postgres implementation is.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

type Store struct {
	mu sync.Mutex

	accounts  map[string]models.Account // by id
	usernames map[string]string         // username -> account id
	sessions  map[string]models.Session // by handle

	friendRequests map[string]models.FriendRequest
	friendEdges    map[[2]string]models.FriendEdge // canonical (low, high)

	connRequests map[string]models.ConnectionRequest
	pings        map[string]models.LivenessPing
}

func New() *Store {
	return &Store{
		accounts:       make(map[string]models.Account),
		usernames:      make(map[string]string),
		sessions:       make(map[string]models.Session),
		friendRequests: make(map[string]models.FriendRequest),
		friendEdges:    make(map[[2]string]models.FriendEdge),
		connRequests:   make(map[string]models.ConnectionRequest),
		pings:          make(map[string]models.LivenessPing),
	}
}

var _ store.Store = (*Store)(nil)

// Accounts

func (s *Store) CreateAccount(_ context.Context, acc models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernames[acc.Username]; taken {
		return models.Account{}, store.ErrConflict
	}
	s.accounts[acc.ID] = acc
	s.usernames[acc.Username] = acc.ID
	return acc, nil
}

func (s *Store) GetAccountByID(_ context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, store.ErrNotFound
	}
	return acc, nil
}

func (s *Store) GetAccountByUsername(_ context.Context, username string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usernames[username]
	if !ok {
		return models.Account{}, store.ErrNotFound
	}
	return s.accounts[id], nil
}

// Sessions

func (s *Store) CreateSession(_ context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.Handle] = sess
	return nil
}

func (s *Store) GetSession(_ context.Context, handle string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[handle]
	if !ok {
		return models.Session{}, store.ErrNotFound
	}
	return sess, nil
}

func (s *Store) TouchSession(_ context.Context, handle, accountID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[handle]
	if !ok {
		return store.ErrNotFound
	}
	if sess.AccountID != accountID {
		return store.ErrUnauthorized
	}
	sess.LastHeartbeat = now
	sess.Active = true
	s.sessions[handle] = sess
	return nil
}

func (s *Store) DeleteSession(_ context.Context, handle, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[handle]
	if !ok {
		return nil
	}
	if sess.AccountID != accountID {
		return store.ErrUnauthorized
	}
	delete(s.sessions, handle)
	return nil
}

func (s *Store) ListLiveSessions(_ context.Context, accountID string, liveAfter time.Time) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Session
	for _, sess := range s.sessions {
		if sess.AccountID == accountID && sess.Active && sess.LastHeartbeat.After(liveAfter) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteSessionsIdleSince(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for handle, sess := range s.sessions {
		if !sess.LastHeartbeat.After(cutoff) {
			delete(s.sessions, handle)
			n++
		}
	}
	return n, nil
}

// Friend graph

func (s *Store) CreateFriendRequest(_ context.Context, req models.FriendRequest) (models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	low, high := models.CanonicalPair(req.FromAccount, req.ToAccount)
	if _, ok := s.friendEdges[[2]string{low, high}]; ok {
		return models.FriendRequest{}, store.ErrAlreadyFriends
	}
	for _, existing := range s.friendRequests {
		if existing.Status != models.FriendRequestPending {
			continue
		}
		l, h := models.CanonicalPair(existing.FromAccount, existing.ToAccount)
		if l == low && h == high {
			return models.FriendRequest{}, store.ErrRequestExists
		}
	}
	s.friendRequests[req.ID] = req
	return req, nil
}

func (s *Store) GetFriendRequest(_ context.Context, id string) (models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.friendRequests[id]
	if !ok {
		return models.FriendRequest{}, store.ErrNotFound
	}
	return req, nil
}

func (s *Store) RespondFriendRequest(_ context.Context, id string, accept bool, now time.Time) (models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.friendRequests[id]
	if !ok {
		return models.FriendRequest{}, store.ErrNotFound
	}
	if req.Status != models.FriendRequestPending {
		return models.FriendRequest{}, store.ErrInvalidState
	}

	if accept {
		req.Status = models.FriendRequestAccepted
		low, high := models.CanonicalPair(req.FromAccount, req.ToAccount)
		s.friendEdges[[2]string{low, high}] = models.FriendEdge{
			AccountLow:  low,
			AccountHigh: high,
			CreatedAt:   now,
		}
	} else {
		req.Status = models.FriendRequestRejected
	}
	req.RespondedAt = &now
	s.friendRequests[id] = req
	return req, nil
}

func (s *Store) ListPendingFriendRequests(_ context.Context, accountID string) ([]models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.FriendRequest
	for _, req := range s.friendRequests {
		if req.Status != models.FriendRequestPending {
			continue
		}
		if req.FromAccount == accountID || req.ToAccount == accountID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) AreFriends(_ context.Context, a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	low, high := models.CanonicalPair(a, b)
	_, ok := s.friendEdges[[2]string{low, high}]
	return ok, nil
}

func (s *Store) ListFriends(_ context.Context, accountID string) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Account
	for pair := range s.friendEdges {
		var other string
		switch accountID {
		case pair[0]:
			other = pair[1]
		case pair[1]:
			other = pair[0]
		default:
			continue
		}
		if acc, ok := s.accounts[other]; ok {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) DeleteFriendEdge(_ context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	low, high := models.CanonicalPair(a, b)
	delete(s.friendEdges, [2]string{low, high})
	return nil
}

// Connection requests

func (s *Store) CreateConnectionRequest(_ context.Context, req models.ConnectionRequest) (models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.connRequests {
		if existing.FromSession == req.FromSession &&
			existing.ToSession == req.ToSession &&
			existing.Status != models.ConnectionCompleted {
			return models.ConnectionRequest{}, store.ErrDuplicateRequest
		}
	}
	s.connRequests[req.ID] = req
	return req, nil
}

func (s *Store) GetConnectionRequest(_ context.Context, id string) (models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.connRequests[id]
	if !ok {
		return models.ConnectionRequest{}, store.ErrNotFound
	}
	return req, nil
}

func (s *Store) ReplyConnectionRequest(_ context.Context, id, answer string, now time.Time) (models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.connRequests[id]
	if !ok {
		return models.ConnectionRequest{}, store.ErrNotFound
	}
	if req.Status != models.ConnectionSent {
		return models.ConnectionRequest{}, store.ErrInvalidState
	}
	req.Status = models.ConnectionReplied
	req.Answer = answer
	req.UpdatedAt = now
	s.connRequests[id] = req
	return req, nil
}

func (s *Store) CompleteConnectionRequest(_ context.Context, id string, now time.Time) (models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.connRequests[id]
	if !ok {
		return models.ConnectionRequest{}, store.ErrNotFound
	}
	if req.Status != models.ConnectionCompleted {
		req.Status = models.ConnectionCompleted
		req.UpdatedAt = now
		s.connRequests[id] = req
	}
	return req, nil
}

func (s *Store) ListIncomingConnectionRequests(_ context.Context, toSession string, sentAfter time.Time) ([]models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ConnectionRequest
	for _, req := range s.connRequests {
		if req.ToSession == toSession && req.Status == models.ConnectionSent && req.CreatedAt.After(sentAfter) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteExpiredConnectionRequests(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, req := range s.connRequests {
		if req.Status == models.ConnectionSent && !req.CreatedAt.After(cutoff) {
			delete(s.connRequests, id)
			n++
		}
	}
	return n, nil
}

// Liveness pings

func (s *Store) PutLivenessPing(_ context.Context, ping models.LivenessPing) (models.LivenessPing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.pings {
		if existing.FromSession == ping.FromSession && existing.ToSession == ping.ToSession {
			delete(s.pings, id)
		}
	}
	s.pings[ping.ID] = ping
	return ping, nil
}

func (s *Store) GetLivenessPing(_ context.Context, id string) (models.LivenessPing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ping, ok := s.pings[id]
	if !ok {
		return models.LivenessPing{}, store.ErrNotFound
	}
	return ping, nil
}

func (s *Store) RespondLivenessPing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ping, ok := s.pings[id]
	if !ok {
		return nil
	}
	ping.Status = models.PingResponded
	s.pings[id] = ping
	return nil
}

func (s *Store) DeleteLivenessPing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pings, id)
	return nil
}

func (s *Store) DeleteExpiredLivenessPings(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, ping := range s.pings {
		if !ping.CreatedAt.After(cutoff) {
			delete(s.pings, id)
			n++
		}
	}
	return n, nil
}
