package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jobprep-backend/resume/analyzer"
	"jobprep-backend/resume/model"
)

type analyzeFlags struct {
	resume      string
	job         string
	maxKeywords int
	enhance     bool
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.resume, "resume", "", "Path to the resume file (required)")
	cmd.Flags().StringVar(&f.job, "job", "", "Path to the job description file")
	cmd.Flags().IntVar(&f.maxKeywords, "max-keywords", analyzer.DefaultMaxKeywords, "Maximum job keywords to track")
	cmd.Flags().BoolVar(&f.enhance, "enhance", false, "Fill enhanced summary and skills overlays")
	_ = cmd.MarkFlagRequired("resume")
}

// run reads the inputs and returns the resume text with its analysis.
func (f *analyzeFlags) run(ctx context.Context) (string, model.AnalysisResult, error) {
	resumeText, err := readText(ctx, f.resume)
	if err != nil {
		return "", model.AnalysisResult{}, err
	}
	var job string
	if f.job != "" {
		if job, err = readText(ctx, f.job); err != nil {
			return "", model.AnalysisResult{}, err
		}
	}
	az := analyzer.New(analyzer.Options{MaxKeywords: f.maxKeywords, Enhance: f.enhance})
	return resumeText, az.Analyze(resumeText, job), nil
}

func newAnalyzeCmd() *cobra.Command {
	flags := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a resume against a job description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, result, err := flags.run(cmd.Context())
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	flags.register(cmd)
	return cmd
}
