// Package postgres implements store.Store on a pgx connection pool. Each
// mutating method is one statement or one transaction, so the precondition a
// method checks and the write it performs commit together.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ store.Store = (*Store)(nil)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Accounts

func (s *Store) CreateAccount(ctx context.Context, acc models.Account) (models.Account, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, acc.ID, acc.Username, acc.Password, acc.CreatedAt)
	if isUniqueViolation(err) {
		return models.Account{}, store.ErrConflict
	}
	if err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (models.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at FROM accounts WHERE id = $1
	`, id))
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at FROM accounts WHERE username = $1
	`, username))
}

func (s *Store) scanAccount(row pgx.Row) (models.Account, error) {
	var acc models.Account
	err := row.Scan(&acc.ID, &acc.Username, &acc.Password, &acc.CreatedAt)
	if err == pgx.ErrNoRows {
		return models.Account{}, store.ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

// Sessions

func (s *Store) CreateSession(ctx context.Context, sess models.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (handle, account_id, active, created_at, last_heartbeat)
		VALUES ($1, $2, $3, $4, $5)
	`, sess.Handle, sess.AccountID, sess.Active, sess.CreatedAt, sess.LastHeartbeat)
	return err
}

func (s *Store) GetSession(ctx context.Context, handle string) (models.Session, error) {
	var sess models.Session
	err := s.pool.QueryRow(ctx, `
		SELECT handle, account_id, active, created_at, last_heartbeat
		FROM sessions WHERE handle = $1
	`, handle).Scan(&sess.Handle, &sess.AccountID, &sess.Active, &sess.CreatedAt, &sess.LastHeartbeat)
	if err == pgx.ErrNoRows {
		return models.Session{}, store.ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func (s *Store) TouchSession(ctx context.Context, handle, accountID string, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sessions SET last_heartbeat = $3, active = TRUE
		WHERE handle = $1 AND account_id = $2
	`, handle, accountID, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return s.sessionMissReason(ctx, handle)
}

func (s *Store) DeleteSession(ctx context.Context, handle, accountID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM sessions WHERE handle = $1 AND account_id = $2
	`, handle, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	err = s.sessionMissReason(ctx, handle)
	if err == store.ErrNotFound {
		// Deactivation is idempotent: already gone is success.
		return nil
	}
	return err
}

// sessionMissReason distinguishes a missing row from an owner mismatch after
// a conditional write touched nothing.
func (s *Store) sessionMissReason(ctx context.Context, handle string) error {
	var exists bool
	if err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM sessions WHERE handle = $1)
	`, handle).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return store.ErrUnauthorized
	}
	return store.ErrNotFound
}

func (s *Store) ListLiveSessions(ctx context.Context, accountID string, liveAfter time.Time) ([]models.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT handle, account_id, active, created_at, last_heartbeat
		FROM sessions
		WHERE account_id = $1 AND active AND last_heartbeat > $2
		ORDER BY created_at
	`, accountID, liveAfter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Session
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.Handle, &sess.AccountID, &sess.Active, &sess.CreatedAt, &sess.LastHeartbeat); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *Store) DeleteSessionsIdleSince(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM sessions WHERE last_heartbeat <= $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
