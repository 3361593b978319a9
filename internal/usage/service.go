package usage

import (
	"context"
	"time"
)

type store interface {
	EnsurePeriod(ctx context.Context, userID string, now time.Time) (Usage, error)
	Consume(ctx context.Context, userID string, n int, now time.Time) (Usage, error)
	Release(ctx context.Context, userID string, n int) (Usage, error)
	Reset(ctx context.Context, userID string, now time.Time) (Usage, error)
}

// Service manages usage data via an underlying store.
type Service struct {
	store store
	now   func() time.Time
}

// NewService constructs a Service with an in-memory store.
func NewService(policy Policy) *Service {
	return &Service{store: newMemoryStore(policy), now: time.Now}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore *PGStore) *Service {
	return &Service{store: pgStore, now: time.Now}
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// Get returns the current usage for a user, starting a new period if the last one ended.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	return s.store.EnsurePeriod(ctx, userID, s.clock())
}

// CanConsume reports whether the user can consume n units.
func (s *Service) CanConsume(ctx context.Context, userID string, n int) (bool, Usage, error) {
	u, err := s.store.EnsurePeriod(ctx, userID, s.clock())
	if err != nil {
		return false, Usage{}, err
	}
	if n <= 0 {
		return true, u, nil
	}
	return u.Used+n <= u.Limit, u, nil
}

// Consume increments usage by n, or returns ErrLimitReached.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	return s.store.Consume(ctx, userID, n, s.clock())
}

// Release gives back n units taken by Consume when the metered work did not
// complete. Usage never drops below zero.
func (s *Service) Release(ctx context.Context, userID string, n int) (Usage, error) {
	return s.store.Release(ctx, userID, n)
}

// Reset sets usage to zero and starts a new period.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	return s.store.Reset(ctx, userID, s.clock())
}
