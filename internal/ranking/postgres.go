package ranking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRemote keeps the shared leaderboard in a rankings table.
type PostgresRemote struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects and makes sure the table exists.
func OpenPostgres(ctx context.Context, url string) (*PostgresRemote, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	r := &PostgresRemote{pool: pool}
	if err := r.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresRemote) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rankings (
			id         TEXT PRIMARY KEY,
			stage      INTEGER NOT NULL,
			nickname   TEXT NOT NULL,
			time_ms    BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_rankings_stage_time ON rankings (stage, time_ms, created_at);
	`)
	if err != nil {
		return fmt.Errorf("ensure rankings schema: %w", err)
	}
	return nil
}

func (r *PostgresRemote) Insert(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rankings (id, stage, nickname, time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, e.ID, e.Stage, e.Nickname, e.TimeMs, e.CreatedAt)
	return err
}

func (r *PostgresRemote) Top(ctx context.Context, stage, limit int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, stage, nickname, time_ms, created_at
		FROM rankings
		WHERE stage = $1
		ORDER BY time_ms ASC, created_at ASC
		LIMIT $2
	`, stage, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Stage, &e.Nickname, &e.TimeMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRemote) Count(ctx context.Context, stage int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rankings WHERE stage = $1`, stage).Scan(&n)
	return n, err
}

func (r *PostgresRemote) Close() error {
	r.pool.Close()
	return nil
}
