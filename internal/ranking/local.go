// apps/go-server/internal/ranking/local.go
//
// SQLite-backed local leaderboard and personal best times.
//   - Add inserts an entry, prunes the stage to its fastest MaxDisplay entries and
//     reports the new entry's rank (0 when it did not make the cut).
//   - The local store is always written, even when a remote backend is configured.

package ranking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Local is the per-server leaderboard.
type Local struct {
	db         *sql.DB
	maxDisplay int
	now        func() time.Time
}

// NewLocal wraps a migrated database. maxDisplay <= 0 selects DefaultMaxDisplay.
func NewLocal(db *sql.DB, maxDisplay int) *Local {
	if maxDisplay <= 0 {
		maxDisplay = DefaultMaxDisplay
	}
	return &Local{db: db, maxDisplay: maxDisplay, now: time.Now}
}

// MaxDisplay is the number of entries kept per stage.
func (l *Local) MaxDisplay() int { return l.maxDisplay }

// Add records e and returns its 1-based rank within the kept entries, or 0.
// Missing ID and CreatedAt are filled in.
func (l *Local) Add(ctx context.Context, e Entry) (Entry, int, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = l.now().UTC()
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return e, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rankings (id, stage, nickname, time_ms, created_at) VALUES (?,?,?,?,?)`,
		e.ID, e.Stage, e.Nickname, e.TimeMs, e.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return e, 0, fmt.Errorf("insert ranking: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
        DELETE FROM rankings
        WHERE stage=? AND id NOT IN (
            SELECT id FROM rankings WHERE stage=?
            ORDER BY time_ms ASC, created_at ASC, rowid ASC
            LIMIT ?)`,
		e.Stage, e.Stage, l.maxDisplay,
	); err != nil {
		return e, 0, fmt.Errorf("prune rankings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return e, 0, err
	}

	top, err := l.Top(ctx, e.Stage, l.maxDisplay)
	if err != nil {
		return e, 0, err
	}
	return e, rankOf(top, e.ID, l.maxDisplay), nil
}

// Top returns the fastest entries of a stage. limit <= 0 returns every kept entry.
func (l *Local) Top(ctx context.Context, stage, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = l.maxDisplay
	}
	rows, err := l.db.QueryContext(ctx, `
        SELECT id, stage, nickname, time_ms, created_at
        FROM rankings
        WHERE stage=?
        ORDER BY time_ms ASC, created_at ASC, rowid ASC
        LIMIT ?`, stage, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e       Entry
			created string
		)
		if err := rows.Scan(&e.ID, &e.Stage, &e.Nickname, &e.TimeMs, &created); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count is the number of kept entries of a stage.
func (l *Local) Count(ctx context.Context, stage int) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM rankings WHERE stage=?`, stage).Scan(&n)
	return n, err
}

// BestTime returns the personal best of a player on a stage.
func (l *Local) BestTime(ctx context.Context, playerID string, stage int) (int64, bool, error) {
	var ms int64
	err := l.db.QueryRowContext(ctx,
		`SELECT time_ms FROM best_times WHERE player_id=? AND stage=?`, playerID, stage,
	).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return ms, true, nil
}

// SaveBestTime stores ms when there is no record yet or ms is strictly faster.
// It reports whether the record changed.
func (l *Local) SaveBestTime(ctx context.Context, playerID string, stage int, ms int64) (bool, error) {
	res, err := l.db.ExecContext(ctx, `
        INSERT INTO best_times (player_id, stage, time_ms, updated_at) VALUES (?,?,?,?)
        ON CONFLICT(player_id, stage) DO UPDATE
            SET time_ms=excluded.time_ms, updated_at=excluded.updated_at
            WHERE excluded.time_ms < best_times.time_ms`,
		playerID, stage, ms, l.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("save best time: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
