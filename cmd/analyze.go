package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizvault/internal/analysis"
	"github.com/abhisek/quizvault/internal/screens/summary"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask the LLM for strengths and areas to improve",
}

var analyzeResultCmd = &cobra.Command{
	Use:   "result <result-id>",
	Short: "Analyze one attempt",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing result...")
		report, err := e.svc.AnalyzeResult(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	}),
}

var analyzeSubjectCmd = &cobra.Command{
	Use:   "subject <subject-id>",
	Short: "Analyze the recent attempts of a subject",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing subject...")
		report, err := e.svc.AnalyzeSubject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	}),
}

func printReport(w io.Writer, r *analysis.Report) {
	lipgloss.Fprint(w, summary.RenderReport(r))
}

func init() {
	analyzeCmd.AddCommand(analyzeResultCmd)
	analyzeCmd.AddCommand(analyzeSubjectCmd)
}
