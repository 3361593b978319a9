package improvedresumes

import (
	"context"
	"sort"
	"sync"

	"jobprep-backend/internal/shared/util"
)

// MemoryRepo stores improved resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]ImprovedResume
	byUser map[string][]ImprovedResume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]ImprovedResume),
		byUser: make(map[string][]ImprovedResume),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, resume ImprovedResume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[resume.ID] = resume
	r.byUser[resume.UserID] = append(r.byUser[resume.UserID], resume)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (ImprovedResume, error) {
	if err := ctx.Err(); err != nil {
		return ImprovedResume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[id]
	if !ok || resume.UserID != userID {
		return ImprovedResume{}, ErrNotFound
	}
	return resume, nil
}

// ListByUser returns improved resumes for a user, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ImprovedResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	resumes := make([]ImprovedResume, len(r.byUser[userID]))
	copy(resumes, r.byUser[userID])
	r.mu.RUnlock()

	sort.SliceStable(resumes, func(i, j int) bool {
		return resumes[i].CreatedAt.After(resumes[j].CreatedAt)
	})
	start, end := util.Window(len(resumes), limit, offset)
	return resumes[start:end], nil
}

var _ Repo = (*MemoryRepo)(nil)

// ClaimGuest moves every improved resume owned by guestUserID to userID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resumes := r.byUser[guestUserID]
	for i := range resumes {
		resumes[i].UserID = userID
		r.byID[resumes[i].ID] = resumes[i]
	}
	r.byUser[userID] = append(r.byUser[userID], resumes...)
	delete(r.byUser, guestUserID)
	return len(resumes), nil
}
