package improvedresumes

import "context"

// Repo defines persistence operations for improved resumes. Reads are scoped
// to the owning user.
type Repo interface {
	Create(ctx context.Context, resume ImprovedResume) error
	GetByID(ctx context.Context, userID, id string) (ImprovedResume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]ImprovedResume, error)
}
