package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PGStore keeps usage rows in Postgres. Every mutation locks the row with
// SELECT ... FOR UPDATE so concurrent requests cannot overspend.
type PGStore struct {
	DB     *sql.DB
	policy Policy
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB, policy Policy) *PGStore {
	return &PGStore{DB: db, policy: policy.normalized()}
}

func (s *PGStore) EnsurePeriod(ctx context.Context, userID string, now time.Time) (Usage, error) {
	return s.inTx(ctx, func(tx *sql.Tx) (Usage, error) {
		return s.lockAndEnsure(ctx, tx, userID, now)
	})
}

func (s *PGStore) Consume(ctx context.Context, userID string, n int, now time.Time) (Usage, error) {
	return s.inTx(ctx, func(tx *sql.Tx) (Usage, error) {
		u, err := s.lockAndEnsure(ctx, tx, userID, now)
		if err != nil {
			return Usage{}, err
		}
		if n <= 0 {
			return u, nil
		}
		if u.Used+n > u.Limit {
			return Usage{}, ErrLimitReached
		}
		u.Used += n
		if _, err := tx.ExecContext(ctx, `UPDATE usage SET used = $1 WHERE user_id = $2`, u.Used, userID); err != nil {
			return Usage{}, fmt.Errorf("update usage: %w", err)
		}
		return u, nil
	})
}

func (s *PGStore) Release(ctx context.Context, userID string, n int) (Usage, error) {
	var u Usage
	err := s.DB.QueryRowContext(ctx, `
UPDATE usage SET used = GREATEST(used - $1, 0) WHERE user_id = $2
RETURNING plan, limit_amount, used, resets_at`, n, userID).
		Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Usage{}, nil
	}
	if err != nil {
		return Usage{}, fmt.Errorf("release usage: %w", err)
	}
	return u, nil
}

func (s *PGStore) Reset(ctx context.Context, userID string, now time.Time) (Usage, error) {
	u := s.policy.fresh(now)
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (user_id) DO UPDATE SET used = 0, resets_at = EXCLUDED.resets_at`,
		userID, u.Plan, u.Limit, u.ResetsAt); err != nil {
		return Usage{}, fmt.Errorf("reset usage: %w", err)
	}
	return u, nil
}

func (s *PGStore) inTx(ctx context.Context, fn func(tx *sql.Tx) (Usage, error)) (Usage, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	u, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return Usage{}, err
	}
	if err := tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *PGStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string, now time.Time) (Usage, error) {
	var u Usage
	err := tx.QueryRowContext(ctx, `
SELECT plan, limit_amount, used, resets_at FROM usage WHERE user_id = $1 FOR UPDATE`, userID).
		Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if errors.Is(err, sql.ErrNoRows) {
		u = s.policy.fresh(now)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at) VALUES ($1, $2, $3, $4, $5)`,
			userID, u.Plan, u.Limit, u.Used, u.ResetsAt); err != nil {
			return Usage{}, fmt.Errorf("insert usage: %w", err)
		}
		return u, nil
	}
	if err != nil {
		return Usage{}, fmt.Errorf("select usage: %w", err)
	}

	if rolled, changed := s.policy.roll(u, now); changed {
		u = rolled
		if _, err := tx.ExecContext(ctx, `UPDATE usage SET used = $1, resets_at = $2 WHERE user_id = $3`, u.Used, u.ResetsAt, userID); err != nil {
			return Usage{}, fmt.Errorf("roll usage period: %w", err)
		}
	}
	return u, nil
}

var _ store = (*PGStore)(nil)
