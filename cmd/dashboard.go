package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Overview of every subject and the latest attempts",
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		out := cmd.OutOrStdout()
		recent, _ := cmd.Flags().GetInt("recent")

		ov, err := e.svc.Stats().Dashboard(cmd.Context(), recent)
		if err != nil {
			return err
		}
		if len(ov.Subjects) == 0 {
			fmt.Fprintln(out, "Nothing here yet. Try `quizvault seed` to load sample quizzes.")
			return nil
		}

		fmt.Fprintf(out, "Subjects: %d   Quizzes: %d   Attempts: %d\n", len(ov.Subjects), ov.TotalQuizzes, ov.TotalAttempts)
		printScore(out, "Average:  ", ov.AverageScore)
		fmt.Fprintln(out)

		fmt.Fprintf(out, "%-32s  %7s  %8s  %7s\n", "Subject", "Quizzes", "Attempts", "Average")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, s := range ov.Subjects {
			fmt.Fprintf(out, "%-32s  %7d  %8d  %7s\n",
				truncate(s.Subject.Name, 32), s.TotalQuizzes, s.TotalAttempts, formatScore(s.AverageScore))
		}

		if len(ov.RecentResults) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Recent attempts")
			printResultTable(out, ov.RecentResults)
		}
		return nil
	}),
}

func init() {
	dashboardCmd.Flags().IntP("recent", "n", 5, "Number of recent attempts to show")
}
