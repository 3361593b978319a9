package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobprep-backend/internal/extract"
	"jobprep-backend/internal/shared/storage/object"
	"jobprep-backend/internal/shared/telemetry"
)

// MaxUploadBytes bounds a single resume upload.
const MaxUploadBytes = 5 << 20

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Upload stores the file, extracts its text and records the document.
// Files that are not PDF, DOCX or plain text are rejected before storage.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if userID == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return Document{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Document{}, ErrMissingText
	}
	if !extract.Supported(http.DetectContentType(data), fileName, data) {
		return Document{}, ErrUnsupportedType
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}

	_, extractedKey, err := extract.ExtractText(ctx, s.Store, storageKey, mimeType, fileName)
	if err != nil {
		return Document{}, mapExtractError(err)
	}
	extractedAt := s.now()

	doc := Document{
		ID:               uuid.NewString(),
		UserID:           userID,
		FileName:         fileName,
		MimeType:         mimeType,
		SizeBytes:        size,
		StorageKey:       storageKey,
		ExtractedTextKey: extractedKey,
		ExtractedAt:      &extractedAt,
		CreatedAt:        extractedAt,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	telemetry.Info("document.uploaded", map[string]any{
		"document_id": doc.ID,
		"user_id":     userID,
		"mime_type":   mimeType,
		"size_bytes":  size,
	})
	return doc, nil
}

// Current returns the latest document for a user.
func (s *Service) Current(ctx context.Context, userID string) (Document, error) {
	if userID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetCurrentByUser(ctx, userID)
}

// Get returns one document owned by the user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List returns documents for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Text returns the extracted plain text of a document, extracting it on
// first use when the upload predates extraction.
func (s *Service) Text(ctx context.Context, userID, documentID string) (string, error) {
	doc, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return "", err
	}

	if doc.ExtractedTextKey != "" {
		raw, err := object.ReadAll(ctx, s.Store, doc.ExtractedTextKey)
		if err == nil {
			return string(raw), nil
		}
		telemetry.Warn("document.extracted_text_unreadable", map[string]any{
			"document_id": doc.ID,
			"error":       err,
		})
	}

	text, extractedKey, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		return "", mapExtractError(err)
	}
	if err := s.Repo.UpdateExtraction(ctx, userID, doc.ID, extractedKey, s.now()); err != nil {
		return "", err
	}
	return text, nil
}

func mapExtractError(err error) error {
	switch {
	case errors.Is(err, extract.ErrUnsupported):
		return fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	case errors.Is(err, extract.ErrEmptyText), errors.Is(err, extract.ErrUnreadable):
		return fmt.Errorf("%w: %v", ErrMissingText, err)
	default:
		return err
	}
}
