package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ogyeet10/chat-lol/internal/models"
	"github.com/Ogyeet10/chat-lol/internal/store"
)

func (s *Store) PutLivenessPing(ctx context.Context, ping models.LivenessPing) (models.LivenessPing, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.LivenessPing{}, err
	}
	defer tx.Rollback(ctx)

	// Only the newest probe for a pair matters; drop the old one first.
	_, err = tx.Exec(ctx, `
		DELETE FROM liveness_pings WHERE from_session = $1 AND to_session = $2
	`, ping.FromSession, ping.ToSession)
	if err != nil {
		return models.LivenessPing{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO liveness_pings (id, from_session, to_session, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ping.ID, ping.FromSession, ping.ToSession, models.PingSent, ping.CreatedAt)
	if err != nil {
		return models.LivenessPing{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.LivenessPing{}, err
	}
	return ping, nil
}

func (s *Store) GetLivenessPing(ctx context.Context, id string) (models.LivenessPing, error) {
	var ping models.LivenessPing
	err := s.pool.QueryRow(ctx, `
		SELECT id, from_session, to_session, status, created_at
		FROM liveness_pings WHERE id = $1
	`, id).Scan(&ping.ID, &ping.FromSession, &ping.ToSession, &ping.Status, &ping.CreatedAt)
	if err == pgx.ErrNoRows {
		return models.LivenessPing{}, store.ErrNotFound
	}
	if err != nil {
		return models.LivenessPing{}, err
	}
	return ping, nil
}

func (s *Store) RespondLivenessPing(ctx context.Context, id string) error {
	// A late or duplicate response targets a superseded ping; touching zero
	// rows is fine.
	_, err := s.pool.Exec(ctx, `
		UPDATE liveness_pings SET status = $2 WHERE id = $1
	`, id, models.PingResponded)
	return err
}

func (s *Store) DeleteLivenessPing(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM liveness_pings WHERE id = $1`, id)
	return err
}

func (s *Store) DeleteExpiredLivenessPings(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM liveness_pings WHERE created_at <= $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
