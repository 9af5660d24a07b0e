package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <subject-id>",
	Short: "Show quiz and attempt statistics for a subject",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		sub, err := e.store.GetSubject(ctx, args[0])
		if err != nil {
			return err
		}
		if sub == nil {
			return fmt.Errorf("subject %s not found", args[0])
		}
		sum, err := e.svc.Stats().SubjectStats(ctx, sub.ID)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, sub.Name)
		fmt.Fprintln(out, strings.Repeat("─", 40))
		fmt.Fprintf(out, "Quizzes:   %d\n", sum.TotalQuizzes)
		fmt.Fprintf(out, "Attempts:  %d\n", sum.TotalAttempts)
		printScore(out, "Average:   ", sum.AverageScore)
		return nil
	}),
}
