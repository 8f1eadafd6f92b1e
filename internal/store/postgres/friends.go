package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

func (s *Store) CreateFriendRequest(ctx context.Context, req models.FriendRequest) (models.FriendRequest, error) {
	low, high := models.CanonicalPair(req.FromAccount, req.ToAccount)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.FriendRequest{}, err
	}
	defer tx.Rollback(ctx)

	var friends bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM friend_edges WHERE account_low = $1 AND account_high = $2)
	`, low, high).Scan(&friends)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if friends {
		return models.FriendRequest{}, store.ErrAlreadyFriends
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO friend_requests (id, from_account, to_account, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, req.ID, req.FromAccount, req.ToAccount, models.FriendRequestPending, req.CreatedAt)
	if isUniqueViolation(err) {
		// The pair-scoped partial unique index caught a pending request in
		// either direction.
		return models.FriendRequest{}, store.ErrRequestExists
	}
	if err != nil {
		return models.FriendRequest{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.FriendRequest{}, err
	}
	return req, nil
}

func (s *Store) GetFriendRequest(ctx context.Context, id string) (models.FriendRequest, error) {
	return s.scanFriendRequest(s.pool.QueryRow(ctx, `
		SELECT id, from_account, to_account, status, created_at, responded_at
		FROM friend_requests WHERE id = $1
	`, id))
}

func (s *Store) scanFriendRequest(row pgx.Row) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := row.Scan(&req.ID, &req.FromAccount, &req.ToAccount, &req.Status, &req.CreatedAt, &req.RespondedAt)
	if err == pgx.ErrNoRows {
		return models.FriendRequest{}, store.ErrNotFound
	}
	if err != nil {
		return models.FriendRequest{}, err
	}
	return req, nil
}

func (s *Store) RespondFriendRequest(ctx context.Context, id string, accept bool, now time.Time) (models.FriendRequest, error) {
	status := models.FriendRequestRejected
	if accept {
		status = models.FriendRequestAccepted
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.FriendRequest{}, err
	}
	defer tx.Rollback(ctx)

	// Conditional on pending so a concurrent second respond loses the race
	// and reads the miss reason below.
	req, err := s.scanFriendRequest(tx.QueryRow(ctx, `
		UPDATE friend_requests SET status = $2, responded_at = $3
		WHERE id = $1 AND status = $4
		RETURNING id, from_account, to_account, status, created_at, responded_at
	`, id, status, now, models.FriendRequestPending))
	if err == store.ErrNotFound {
		var cur string
		getErr := tx.QueryRow(ctx, `SELECT status FROM friend_requests WHERE id = $1`, id).Scan(&cur)
		if getErr == pgx.ErrNoRows {
			return models.FriendRequest{}, store.ErrNotFound
		}
		if getErr != nil {
			return models.FriendRequest{}, getErr
		}
		return models.FriendRequest{}, store.ErrInvalidState
	}
	if err != nil {
		return models.FriendRequest{}, err
	}

	if accept {
		low, high := models.CanonicalPair(req.FromAccount, req.ToAccount)
		_, err = tx.Exec(ctx, `
			INSERT INTO friend_edges (account_low, account_high, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (account_low, account_high) DO NOTHING
		`, low, high, now)
		if err != nil {
			return models.FriendRequest{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.FriendRequest{}, err
	}
	return req, nil
}

func (s *Store) ListPendingFriendRequests(ctx context.Context, accountID string) ([]models.FriendRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, from_account, to_account, status, created_at, responded_at
		FROM friend_requests
		WHERE (from_account = $1 OR to_account = $1) AND status = $2
		ORDER BY created_at
	`, accountID, models.FriendRequestPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FriendRequest
	for rows.Next() {
		var req models.FriendRequest
		if err := rows.Scan(&req.ID, &req.FromAccount, &req.ToAccount, &req.Status, &req.CreatedAt, &req.RespondedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) AreFriends(ctx context.Context, a, b string) (bool, error) {
	low, high := models.CanonicalPair(a, b)
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM friend_edges WHERE account_low = $1 AND account_high = $2)
	`, low, high).Scan(&exists)
	return exists, err
}

func (s *Store) ListFriends(ctx context.Context, accountID string) ([]models.Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.username, a.password_hash, a.created_at
		FROM friend_edges e
		JOIN accounts a ON a.id = CASE WHEN e.account_low = $1 THEN e.account_high ELSE e.account_low END
		WHERE e.account_low = $1 OR e.account_high = $1
		ORDER BY a.username
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var acc models.Account
		if err := rows.Scan(&acc.ID, &acc.Username, &acc.Password, &acc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (s *Store) DeleteFriendEdge(ctx context.Context, a, b string) error {
	low, high := models.CanonicalPair(a, b)
	_, err := s.pool.Exec(ctx, `
		DELETE FROM friend_edges WHERE account_low = $1 AND account_high = $2
	`, low, high)
	return err
}
