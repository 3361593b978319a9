package analyses

import (
	"context"
	"sort"
	"sync"

	"jobprep-backend/internal/shared/util"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Analysis
	byUser map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Analysis),
		byUser: make(map[string][]string),
	}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[analysis.ID] = analysis
	r.byUser[analysis.UserID] = append(r.byUser[analysis.UserID], analysis.ID)
	return nil
}

// GetByID returns an analysis owned by userID.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[analysisID]
	if !ok || a.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// ListByUser returns analyses for a user, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	ids := r.byUser[userID]
	out := make([]Analysis, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	start, end := util.Window(len(out), limit, offset)
	return out[start:end], nil
}

var _ Repo = (*MemoryRepo)(nil)

// ClaimGuest moves every analysis owned by guestUserID to userID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byUser[guestUserID]
	for _, id := range ids {
		a := r.byID[id]
		a.UserID = userID
		r.byID[id] = a
	}
	r.byUser[userID] = append(r.byUser[userID], ids...)
	delete(r.byUser, guestUserID)
	return len(ids), nil
}
