package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobprep-backend/internal/shared/util"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, file_name, mime_type, size_bytes, storage_key, extracted_text_key, extracted_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var extractedKey sql.NullString
	var extractedAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&extractedKey,
		&extractedAt,
		&doc.CreatedAt,
	); err != nil {
		return Document{}, err
	}
	if extractedKey.Valid {
		doc.ExtractedTextKey = extractedKey.String
	}
	if extractedAt.Valid {
		at := extractedAt.Time
		doc.ExtractedAt = &at
	}
	return doc, nil
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id, user_id, file_name, mime_type, size_bytes, storage_key, extracted_text_key, extracted_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var extractedKey sql.NullString
	if doc.ExtractedTextKey != "" {
		extractedKey = sql.NullString{String: doc.ExtractedTextKey, Valid: true}
	}
	var extractedAt sql.NullTime
	if doc.ExtractedAt != nil {
		extractedAt = sql.NullTime{Time: *doc.ExtractedAt, Valid: true}
	}

	if _, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		extractedKey,
		extractedAt,
		doc.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetCurrentByUser returns the latest document for a user.
func (r *PGRepo) GetCurrentByUser(ctx context.Context, userID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, userID, documentID))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = util.DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateExtraction stores the extracted text metadata for a document.
func (r *PGRepo) UpdateExtraction(ctx context.Context, userID, documentID, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE documents
SET extracted_text_key = $1, extracted_at = $2
WHERE user_id = $3 AND id = $4 AND extracted_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, userID, documentID)
	return err
}

var _ DocumentsRepo = (*PGRepo)(nil)
