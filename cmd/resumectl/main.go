// Command resumectl parses, analyzes and improves resumes from local files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"jobprep-backend/internal/shared/telemetry"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Resume parsing, ATS scoring and suggestion application",
		Long:          "resumectl splits resumes into sections, scores them against a job description and applies selected suggestions. Input files may be PDF, DOCX or plain text.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd(), newAnalyzeCmd(), newApplyCmd())
	return root
}

func main() {
	_ = godotenv.Load()
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	telemetry.Init(level, "console")
	defer telemetry.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
