package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		handle TEXT PRIMARY KEY,
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		last_heartbeat TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_liveness
		ON sessions (account_id, active, last_heartbeat)`,

	`CREATE TABLE IF NOT EXISTS friend_requests (
		id UUID PRIMARY KEY,
		from_account UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		to_account UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL,
		responded_at TIMESTAMPTZ
	)`,
	// At most one pending request per unordered pair, in either direction.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_friend_requests_pending_pair
		ON friend_requests (LEAST(from_account, to_account), GREATEST(from_account, to_account))
		WHERE status = 'pending'`,

	`CREATE TABLE IF NOT EXISTS friend_edges (
		account_low UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		account_high UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (account_low, account_high)
	)`,

	`CREATE TABLE IF NOT EXISTS connection_requests (
		id UUID PRIMARY KEY,
		from_session TEXT NOT NULL,
		to_session TEXT NOT NULL,
		from_account UUID NOT NULL,
		to_account UUID NOT NULL,
		from_username TEXT NOT NULL,
		offer TEXT NOT NULL,
		answer TEXT,
		status TEXT NOT NULL DEFAULT 'sent',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	// At most one outstanding handshake per ordered session pair.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_connection_requests_outstanding
		ON connection_requests (from_session, to_session)
		WHERE status IN ('sent', 'replied')`,
	`CREATE INDEX IF NOT EXISTS idx_connection_requests_incoming
		ON connection_requests (to_session, status, created_at)`,

	`CREATE TABLE IF NOT EXISTS liveness_pings (
		id UUID PRIMARY KEY,
		from_session TEXT NOT NULL,
		to_session TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'sent',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_liveness_pings_pair
		ON liveness_pings (from_session, to_session)`,
}

// RunMigrations bootstraps the schema. Statements are idempotent so startup
// can always run them.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
