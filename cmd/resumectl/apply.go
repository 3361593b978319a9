package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jobprep-backend/resume/model"
	resumeservice "jobprep-backend/resume/service"
)

func newApplyCmd() *cobra.Command {
	flags := &analyzeFlags{}
	var (
		selected []int
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply selected suggestions and print the improved resume",
		Long:  "apply analyzes the resume, then applies the suggestions chosen with --select (indexes into the analysis suggestions, in the order given) or all of them with --all.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all && len(selected) > 0 {
				return fmt.Errorf("--select and --all are mutually exclusive")
			}
			resumeText, result, err := flags.run(cmd.Context())
			if err != nil {
				return fmt.Errorf("apply: %w", err)
			}

			chosen := result.Suggestions
			if !all {
				if chosen, err = pick(result.Suggestions, selected); err != nil {
					return err
				}
			}

			improved, err := resumeservice.ApplySuggestions(resumeText, &result, chosen)
			if err != nil {
				return fmt.Errorf("apply: %w", err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), improved+"\n")
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().IntSliceVar(&selected, "select", nil, "Comma-separated suggestion indexes to apply, e.g. 0,2")
	cmd.Flags().BoolVar(&all, "all", false, "Apply every suggestion")
	return cmd
}

func pick(suggestions []model.Suggestion, indexes []int) ([]model.Suggestion, error) {
	out := make([]model.Suggestion, 0, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= len(suggestions) {
			return nil, fmt.Errorf("suggestion index %d out of range (0-%d)", i, len(suggestions)-1)
		}
		out = append(out, suggestions[i])
	}
	return out, nil
}
