package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

const connectionRequestColumns = `
	id, from_session, to_session, from_account, to_account, from_username,
	offer, COALESCE(answer, ''), status, created_at, updated_at`

func (s *Store) CreateConnectionRequest(ctx context.Context, req models.ConnectionRequest) (models.ConnectionRequest, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO connection_requests
			(id, from_session, to_session, from_account, to_account, from_username, offer, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, req.ID, req.FromSession, req.ToSession, req.FromAccount, req.ToAccount,
		req.FromUsername, req.Offer, models.ConnectionSent, req.CreatedAt, req.UpdatedAt)
	if isUniqueViolation(err) {
		// The partial unique index on (from_session, to_session) for
		// non-terminal rows makes the duplicate check and the insert one unit.
		return models.ConnectionRequest{}, store.ErrDuplicateRequest
	}
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	return req, nil
}

func (s *Store) GetConnectionRequest(ctx context.Context, id string) (models.ConnectionRequest, error) {
	return s.scanConnectionRequest(s.pool.QueryRow(ctx, `
		SELECT `+connectionRequestColumns+` FROM connection_requests WHERE id = $1
	`, id))
}

func (s *Store) scanConnectionRequest(row pgx.Row) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := row.Scan(&req.ID, &req.FromSession, &req.ToSession, &req.FromAccount, &req.ToAccount,
		&req.FromUsername, &req.Offer, &req.Answer, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err == pgx.ErrNoRows {
		return models.ConnectionRequest{}, store.ErrNotFound
	}
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	return req, nil
}

func (s *Store) ReplyConnectionRequest(ctx context.Context, id, answer string, now time.Time) (models.ConnectionRequest, error) {
	req, err := s.scanConnectionRequest(s.pool.QueryRow(ctx, `
		UPDATE connection_requests SET status = $2, answer = $3, updated_at = $4
		WHERE id = $1 AND status = $5
		RETURNING `+connectionRequestColumns+`
	`, id, models.ConnectionReplied, answer, now, models.ConnectionSent))
	if err == store.ErrNotFound {
		var cur string
		getErr := s.pool.QueryRow(ctx, `SELECT status FROM connection_requests WHERE id = $1`, id).Scan(&cur)
		if getErr == pgx.ErrNoRows {
			return models.ConnectionRequest{}, store.ErrNotFound
		}
		if getErr != nil {
			return models.ConnectionRequest{}, getErr
		}
		return models.ConnectionRequest{}, store.ErrInvalidState
	}
	return req, err
}

func (s *Store) CompleteConnectionRequest(ctx context.Context, id string, now time.Time) (models.ConnectionRequest, error) {
	return s.scanConnectionRequest(s.pool.QueryRow(ctx, `
		UPDATE connection_requests
		SET status = $2,
			updated_at = CASE WHEN status = $2 THEN updated_at ELSE $3 END
		WHERE id = $1
		RETURNING `+connectionRequestColumns+`
	`, id, models.ConnectionCompleted, now))
}

func (s *Store) ListIncomingConnectionRequests(ctx context.Context, toSession string, sentAfter time.Time) ([]models.ConnectionRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+connectionRequestColumns+`
		FROM connection_requests
		WHERE to_session = $1 AND status = $2 AND created_at > $3
		ORDER BY created_at
	`, toSession, models.ConnectionSent, sentAfter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ConnectionRequest
	for rows.Next() {
		var req models.ConnectionRequest
		if err := rows.Scan(&req.ID, &req.FromSession, &req.ToSession, &req.FromAccount, &req.ToAccount,
			&req.FromUsername, &req.Offer, &req.Answer, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) DeleteExpiredConnectionRequests(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM connection_requests WHERE status = $1 AND created_at <= $2
	`, models.ConnectionSent, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
