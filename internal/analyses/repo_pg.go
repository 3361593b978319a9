package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobprep-backend/internal/shared/util"
)

// PGRepo implements Repo using Postgres. The analyzer output is stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, user_id, document_id, job_description, resume_text, result, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var documentID sql.NullString
	var result []byte
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&documentID,
		&a.JobDescription,
		&a.ResumeText,
		&result,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if documentID.Valid {
		a.DocumentID = documentID.String
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis %s result: %w", a.ID, err)
	}
	return a, nil
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
    id, user_id, document_id, job_description, resume_text, ats_score, result, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	payload, err := json.Marshal(analysis.Result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	var documentID sql.NullString
	if analysis.DocumentID != "" {
		documentID = sql.NullString{String: analysis.DocumentID, Valid: true}
	}

	if _, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		documentID,
		analysis.JobDescription,
		analysis.ResumeText,
		analysis.Result.ATSScore,
		payload,
		analysis.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetByID returns an analysis owned by userID.
func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1 AND user_id = $2
LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

// ListByUser lists analyses ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = util.DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
