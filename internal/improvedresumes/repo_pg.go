package improvedresumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobprep-backend/internal/shared/util"
	"jobprep-backend/resume/model"
)

// PGRepo implements Repo using Postgres. The selected suggestions are kept as
// JSONB next to the record.
type PGRepo struct {
	DB *sql.DB
}

const improvedColumns = `id, user_id, analysis_id, document_id, storage_key, size_bytes, selected, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImproved(row rowScanner) (ImprovedResume, error) {
	var r ImprovedResume
	var documentID sql.NullString
	var selected []byte
	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.AnalysisID,
		&documentID,
		&r.StorageKey,
		&r.SizeBytes,
		&selected,
		&r.CreatedAt,
	); err != nil {
		return ImprovedResume{}, err
	}
	if documentID.Valid {
		r.DocumentID = documentID.String
	}
	r.Selected = []model.Suggestion{}
	if len(selected) > 0 {
		if err := json.Unmarshal(selected, &r.Selected); err != nil {
			return ImprovedResume{}, fmt.Errorf("decode improved resume %s selection: %w", r.ID, err)
		}
	}
	return r, nil
}

// Create inserts an improved resume.
func (r *PGRepo) Create(ctx context.Context, resume ImprovedResume) error {
	const query = `
INSERT INTO improved_resumes (
    id, user_id, analysis_id, document_id, storage_key, size_bytes, selected, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selected := resume.Selected
	if selected == nil {
		selected = []model.Suggestion{}
	}
	payload, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	var documentID sql.NullString
	if resume.DocumentID != "" {
		documentID = sql.NullString{String: resume.DocumentID, Valid: true}
	}

	if _, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.AnalysisID,
		documentID,
		resume.StorageKey,
		resume.SizeBytes,
		payload,
		resume.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert improved resume: %w", err)
	}
	return nil
}

// GetByID returns an improved resume owned by userID.
func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (ImprovedResume, error) {
	query := `
SELECT ` + improvedColumns + `
FROM improved_resumes
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
LIMIT 1`
	resume, err := scanImproved(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return ImprovedResume{}, ErrNotFound
	}
	return resume, err
}

// ListByUser lists improved resumes ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ImprovedResume, error) {
	if limit <= 0 {
		limit = util.DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + improvedColumns + `
FROM improved_resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ImprovedResume{}
	for rows.Next() {
		resume, err := scanImproved(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
