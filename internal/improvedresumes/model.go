package improvedresumes

import (
	"time"

	"jobprep-backend/resume/model"
)

// ImprovedResume is a stored version of a resume produced by applying
// suggestions from an analysis.
type ImprovedResume struct {
	ID         string
	UserID     string
	AnalysisID string
	DocumentID string
	StorageKey string
	SizeBytes  int64
	Selected   []model.Suggestion
	CreatedAt  time.Time
}

// Response is the outward-facing representation of an improved resume.
type Response struct {
	ID         string             `json:"id"`
	AnalysisID string             `json:"analysisId"`
	DocumentID string             `json:"documentId,omitempty"`
	SizeBytes  int64              `json:"sizeBytes"`
	Selected   []model.Suggestion `json:"selectedSuggestions"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// ToResponse maps a stored record to its API shape.
func ToResponse(r ImprovedResume) Response {
	selected := r.Selected
	if selected == nil {
		selected = []model.Suggestion{}
	}
	return Response{
		ID:         r.ID,
		AnalysisID: r.AnalysisID,
		DocumentID: r.DocumentID,
		SizeBytes:  r.SizeBytes,
		Selected:   selected,
		CreatedAt:  r.CreatedAt,
	}
}
