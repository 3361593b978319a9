package main

import (
	"github.com/spf13/cobra"

	"jobprep-backend/resume/sections"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Split a resume into labeled sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"sections": sections.Parse(text)})
		},
	}
}
