package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobprep-backend/internal/shared/cache"
	"jobprep-backend/internal/shared/metrics"
	"jobprep-backend/internal/shared/telemetry"
	"jobprep-backend/internal/usage"
	"jobprep-backend/resume/analyzer"
	"jobprep-backend/resume/model"
	"jobprep-backend/resume/sections"
)

// DocumentTexts resolves the extracted text of a user's uploaded document.
type DocumentTexts interface {
	Text(ctx context.Context, userID, documentID string) (string, error)
}

// Service contains business logic for analyses.
type Service struct {
	Repo     Repo
	Usage    *usage.Service
	Docs     DocumentTexts
	Cache    cache.AnalysisCache
	Analyzer *analyzer.Analyzer
	Now      func() time.Time
}

// CreateInput describes a persisted analysis request. ResumeText wins over
// DocumentID when both are set.
type CreateInput struct {
	UserID         string
	ResumeText     string
	DocumentID     string
	JobDescription string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

var defaultAnalyzer = analyzer.New(analyzer.Options{})

func (s *Service) analyzer() *analyzer.Analyzer {
	if s.Analyzer == nil {
		return defaultAnalyzer
	}
	return s.Analyzer
}

// Parse splits resume text into labeled sections.
func (s *Service) Parse(text string) model.ParsedSections {
	return sections.Parse(text)
}

// Analyze scores resume text against a job description without persisting
// or metering. Results are cached by content.
func (s *Service) Analyze(ctx context.Context, resumeText, jobDescription string) (model.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return model.AnalysisResult{}, err
	}

	az := s.analyzer()
	opts := az.Options()
	key := cache.Key(resumeText, jobDescription, opts.MaxKeywords, opts.Enhance)

	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			telemetry.Warn("analysis.cache_get_failed", map[string]any{"error": err})
		}
		metrics.ObserveCache(ok)
		if ok {
			return cached, nil
		}
	}

	metrics.IncAnalysisStarted()
	start := time.Now()
	result := az.Analyze(resumeText, jobDescription)
	metrics.ObserveAnalysisDuration(time.Since(start))
	metrics.IncAnalysisCompleted(result.ATSScore)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, result); err != nil {
			telemetry.Warn("analysis.cache_set_failed", map[string]any{"error": err})
		}
	}
	return result, nil
}

// Create analyzes resume text, or the text of an uploaded document, and
// stores the result. It consumes one unit of the user's quota up front and
// returns it if the analysis cannot be stored.
func (s *Service) Create(ctx context.Context, in CreateInput) (Analysis, error) {
	if in.UserID == "" {
		return Analysis{}, ErrInvalidInput
	}

	resumeText := in.ResumeText
	if strings.TrimSpace(resumeText) == "" && in.DocumentID != "" {
		if s.Docs == nil {
			return Analysis{}, fmt.Errorf("%w: documents are not available", ErrInvalidInput)
		}
		text, err := s.Docs.Text(ctx, in.UserID, in.DocumentID)
		if err != nil {
			metrics.IncAnalysisFailed("document")
			return Analysis{}, err
		}
		resumeText = text
	}
	if strings.TrimSpace(resumeText) == "" {
		return Analysis{}, ErrMissingText
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, in.UserID, 1); err != nil {
			if errors.Is(err, usage.ErrLimitReached) {
				metrics.IncAnalysisFailed("limit_reached")
			}
			return Analysis{}, err
		}
	}

	analysis, err := s.analyzeAndStore(ctx, in, resumeText)
	if err != nil {
		s.release(ctx, in.UserID)
		return Analysis{}, err
	}

	telemetry.Info("analysis.created", map[string]any{
		"analysis_id": analysis.ID,
		"user_id":     in.UserID,
		"document_id": in.DocumentID,
		"ats_score":   analysis.Result.ATSScore,
		"suggestions": len(analysis.Result.Suggestions),
	})
	return analysis, nil
}

func (s *Service) analyzeAndStore(ctx context.Context, in CreateInput, resumeText string) (Analysis, error) {
	result, err := s.Analyze(ctx, resumeText, in.JobDescription)
	if err != nil {
		return Analysis{}, err
	}

	analysis := Analysis{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		DocumentID:     in.DocumentID,
		JobDescription: in.JobDescription,
		ResumeText:     resumeText,
		Result:         result,
		CreatedAt:      s.now(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		metrics.IncAnalysisFailed("storage")
		return Analysis{}, err
	}
	return analysis, nil
}

// release returns the unit taken for a request that produced no analysis. It
// runs detached from the request context, which may already be cancelled.
func (s *Service) release(ctx context.Context, userID string) {
	if s.Usage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := s.Usage.Release(ctx, userID, 1); err != nil {
		telemetry.Warn("usage.release_failed", map[string]any{"user_id": userID, "error": err})
	}
}

// Get returns one analysis owned by the user.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if userID == "" || analysisID == "" {
		return Analysis{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// List returns analyses for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}
