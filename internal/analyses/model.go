package analyses

import (
	"time"

	"jobprep-backend/resume/model"
)

// Analysis is a persisted analyzer run. The result is immutable once stored.
type Analysis struct {
	ID             string
	UserID         string
	DocumentID     string
	JobDescription string
	ResumeText     string
	Result         model.AnalysisResult
	CreatedAt      time.Time
}

// Summary is the list view of an analysis.
type Summary struct {
	ID              string    `json:"id"`
	DocumentID      string    `json:"documentId,omitempty"`
	ATSScore        int       `json:"atsScore"`
	MissingKeywords []string  `json:"missingKeywords"`
	SuggestionCount int       `json:"suggestionCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Detail is the full view of an analysis.
type Detail struct {
	ID             string                 `json:"id"`
	DocumentID     string                 `json:"documentId,omitempty"`
	JobDescription string                 `json:"jobDescription"`
	Result         model.AnalysisResult   `json:"result"`
	Grouped        model.SuggestionGroups `json:"suggestionsByImpact"`
	CreatedAt      time.Time              `json:"createdAt"`
}

func toSummary(a Analysis) Summary {
	missing := a.Result.MissingKeywords
	if missing == nil {
		missing = []string{}
	}
	return Summary{
		ID:              a.ID,
		DocumentID:      a.DocumentID,
		ATSScore:        a.Result.ATSScore,
		MissingKeywords: missing,
		SuggestionCount: len(a.Result.Suggestions),
		CreatedAt:       a.CreatedAt,
	}
}

func toDetail(a Analysis) Detail {
	return Detail{
		ID:             a.ID,
		DocumentID:     a.DocumentID,
		JobDescription: a.JobDescription,
		Result:         a.Result,
		Grouped:        model.GroupByImpact(a.Result.Suggestions),
		CreatedAt:      a.CreatedAt,
	}
}
