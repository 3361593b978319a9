package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobprep-backend/internal/shared/util"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // userID -> documents in upload order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create appends the document to the user's uploads.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.UserID] = append(r.data[doc.UserID], doc)
	return nil
}

// GetCurrentByUser returns the most recent upload for a user.
func (r *MemoryRepo) GetCurrentByUser(ctx context.Context, userID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[userID]
	if len(docs) == 0 {
		return Document{}, ErrNotFound
	}
	return docs[len(docs)-1], nil
}

// GetByID returns a document by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.data[userID] {
		if doc.ID == documentID {
			return doc, nil
		}
	}
	return Document{}, ErrNotFound
}

// UpdateExtraction records the extracted text key once; later calls keep the first key.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, userID, documentID, extractedKey string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID != documentID {
			continue
		}
		if docs[i].ExtractedTextKey == "" {
			docs[i].ExtractedTextKey = extractedKey
			at := extractedAt
			docs[i].ExtractedAt = &at
		}
		return nil
	}
	return ErrNotFound
}

// ListByUser returns documents for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	docs := make([]Document, len(r.data[userID]))
	copy(docs, r.data[userID])
	r.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	start, end := util.Window(len(docs), limit, offset)
	return docs[start:end], nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)

// ClaimGuest moves every document owned by guestUserID to userID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[guestUserID]
	for i := range docs {
		docs[i].UserID = userID
	}
	r.data[userID] = append(r.data[userID], docs...)
	delete(r.data, guestUserID)
	return len(docs), nil
}
