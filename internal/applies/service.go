// Package applies folds selected analysis suggestions into resume text and
// keeps the resulting versions.
package applies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobprep-backend/internal/analyses"
	"jobprep-backend/internal/improvedresumes"
	"jobprep-backend/internal/shared/metrics"
	"jobprep-backend/internal/shared/storage/object"
	"jobprep-backend/internal/shared/telemetry"
	"jobprep-backend/resume/model"
	resumeservice "jobprep-backend/resume/service"
)

const improvedFileName = "improved_resume.txt"

// AnalysisReader loads an analysis owned by a user.
type AnalysisReader interface {
	Get(ctx context.Context, userID, analysisID string) (analyses.Analysis, error)
}

// Service coordinates applying suggestions and storing improved resumes.
type Service struct {
	Analyses AnalysisReader
	Repo     improvedresumes.Repo
	Store    object.ObjectStore
	Now      func() time.Time
}

// ApplyInput selects suggestions from a stored analysis. Indexes refer to the
// analysis suggestions and are applied first, followed by Suggestions.
type ApplyInput struct {
	UserID      string
	AnalysisID  string
	Indexes     []int
	Suggestions []model.Suggestion
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ApplyInline runs the applier against a caller-supplied analysis without
// storing anything.
func (s *Service) ApplyInline(originalText string, analysis *model.AnalysisResult, selected []model.Suggestion) (string, error) {
	text, err := resumeservice.ApplySuggestions(originalText, analysis, selected)
	if err != nil {
		return "", err
	}
	countApplied(selected)
	return text, nil
}

// Apply applies the selected suggestions to a stored analysis, saves the text
// and records an improved resume.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (improvedresumes.ImprovedResume, string, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.AnalysisID) == "" {
		return improvedresumes.ImprovedResume{}, "", ErrInvalidInput
	}

	analysis, err := s.Analyses.Get(ctx, in.UserID, in.AnalysisID)
	if err != nil {
		if errors.Is(err, analyses.ErrNotFound) {
			return improvedresumes.ImprovedResume{}, "", ErrNotFound
		}
		return improvedresumes.ImprovedResume{}, "", err
	}

	selected, err := selectSuggestions(analysis.Result.Suggestions, in.Indexes, in.Suggestions)
	if err != nil {
		return improvedresumes.ImprovedResume{}, "", err
	}

	text, err := resumeservice.ApplySuggestions(analysis.ResumeText, &analysis.Result, selected)
	if err != nil {
		return improvedresumes.ImprovedResume{}, "", err
	}

	key, size, _, err := s.Store.Save(ctx, in.UserID, improvedFileName, strings.NewReader(text))
	if err != nil {
		return improvedresumes.ImprovedResume{}, "", fmt.Errorf("store improved resume: %w", err)
	}

	record := improvedresumes.ImprovedResume{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		AnalysisID: analysis.ID,
		DocumentID: analysis.DocumentID,
		StorageKey: key,
		SizeBytes:  size,
		Selected:   selected,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return improvedresumes.ImprovedResume{}, "", err
	}

	countApplied(selected)
	telemetry.Info("improved_resume.created", map[string]any{
		"improved_resume_id": record.ID,
		"analysis_id":        analysis.ID,
		"user_id":            in.UserID,
		"selected":           len(selected),
	})
	return record, text, nil
}

// Get returns an improved resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (improvedresumes.ImprovedResume, error) {
	if userID == "" || id == "" {
		return improvedresumes.ImprovedResume{}, ErrInvalidInput
	}
	record, err := s.Repo.GetByID(ctx, userID, id)
	if errors.Is(err, improvedresumes.ErrNotFound) {
		return improvedresumes.ImprovedResume{}, ErrNotFound
	}
	return record, err
}

// List returns a user's improved resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]improvedresumes.ImprovedResume, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Text loads the stored text of an improved resume.
func (s *Service) Text(ctx context.Context, userID, id string) (improvedresumes.ImprovedResume, string, error) {
	record, err := s.Get(ctx, userID, id)
	if err != nil {
		return improvedresumes.ImprovedResume{}, "", err
	}
	data, err := object.ReadAll(ctx, s.Store, record.StorageKey)
	if err != nil {
		return improvedresumes.ImprovedResume{}, "", fmt.Errorf("load improved resume: %w", err)
	}
	return record, string(data), nil
}

// selectSuggestions resolves indexes against the analysis suggestions and
// appends any explicit suggestions. Order is preserved.
func selectSuggestions(available []model.Suggestion, indexes []int, extra []model.Suggestion) ([]model.Suggestion, error) {
	selected := make([]model.Suggestion, 0, len(indexes)+len(extra))
	for _, i := range indexes {
		if i < 0 || i >= len(available) {
			return nil, fmt.Errorf("%w: suggestion index %d out of range", ErrInvalidInput, i)
		}
		selected = append(selected, available[i])
	}
	return append(selected, extra...), nil
}

func countApplied(selected []model.Suggestion) {
	for _, sug := range selected {
		metrics.IncSuggestionApplied(string(sug.Type))
	}
}
