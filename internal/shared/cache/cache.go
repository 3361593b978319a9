// Package cache stores analyzer output keyed by the content it was computed from.
package cache

import (
	"context"
	"strconv"

	"jobprep-backend/internal/shared/util"
	"jobprep-backend/resume/model"
)

// AnalysisCache is safe for concurrent use. A miss is (zero, false, nil).
type AnalysisCache interface {
	Get(ctx context.Context, key string) (model.AnalysisResult, bool, error)
	Set(ctx context.Context, key string, result model.AnalysisResult) error
}

const keyPrefix = "analysis:v1:"

// Key derives the cache key for an analyze call. Analyzer options are part of
// the key because they change the output.
func Key(resumeText, jobDescription string, maxKeywords int, enhance bool) string {
	return keyPrefix + util.ContentKey(resumeText, jobDescription, strconv.Itoa(maxKeywords), strconv.FormatBool(enhance))
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (model.AnalysisResult, bool, error) {
	return model.AnalysisResult{}, false, nil
}

func (Noop) Set(context.Context, string, model.AnalysisResult) error { return nil }
