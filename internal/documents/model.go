package documents

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the document does not exist for the user.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file that cannot be turned into text.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrMissingText indicates an upload without readable text.
	ErrMissingText = errors.New("document has no readable text")

	// ErrTooLarge indicates an upload above MaxUploadBytes.
	ErrTooLarge = errors.New("file too large")
)

// Document represents an uploaded resume owned by a user.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID  string     `json:"documentId"`
	FileName    string     `json:"fileName"`
	MimeType    string     `json:"mimeType"`
	SizeBytes   int64      `json:"sizeBytes"`
	UploadedAt  time.Time  `json:"uploadedAt"`
	ExtractedAt *time.Time `json:"extractedAt,omitempty"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:  doc.ID,
		FileName:    doc.FileName,
		MimeType:    doc.MimeType,
		SizeBytes:   doc.SizeBytes,
		UploadedAt:  doc.CreatedAt,
		ExtractedAt: doc.ExtractedAt,
	}
}
