package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu     sync.Mutex
	policy Policy
	data   map[string]Usage
}

func newMemoryStore(policy Policy) *memoryStore {
	return &memoryStore{
		policy: policy.normalized(),
		data:   make(map[string]Usage),
	}
}

// current must be called with mu held.
func (s *memoryStore) current(userID string, now time.Time) Usage {
	u, ok := s.data[userID]
	if !ok {
		u = s.policy.fresh(now)
	}
	u, _ = s.policy.roll(u, now)
	s.data[userID] = u
	return u
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, userID string, now time.Time) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(userID, now), nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int, now time.Time) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID, now)
	if n <= 0 {
		return u, nil
	}
	if u.Used+n > u.Limit {
		return u, ErrLimitReached
	}
	u.Used += n
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Release(ctx context.Context, userID string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data[userID]
	if !ok || n <= 0 {
		return u, nil
	}
	u.Used = max(u.Used-n, 0)
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string, now time.Time) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.policy.fresh(now)
	s.data[userID] = u
	return u, nil
}
