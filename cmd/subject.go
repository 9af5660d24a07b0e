package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage subjects",
}

var subjectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a subject",
	Args:  cobra.MinimumNArgs(1),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		description, _ := cmd.Flags().GetString("description")
		sub, err := e.store.CreateSubject(cmd.Context(), strings.Join(args, " "), description)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created subject %q (%s)\n", sub.Name, sub.ID)
		return nil
	}),
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subjects with their quiz and attempt counts",
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		subjects, err := e.store.ListSubjects(ctx)
		if err != nil {
			return err
		}
		if len(subjects) == 0 {
			fmt.Fprintln(out, "No subjects yet. Create one with `quizvault subject create <name>`.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-28s  %7s  %8s  %7s\n", "ID", "Name", "Quizzes", "Attempts", "Average")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, sub := range subjects {
			sum, err := e.svc.Stats().SubjectStats(ctx, sub.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-36s  %-28s  %7d  %8d  %7s\n",
				sub.ID, truncate(sub.Name, 28), sum.TotalQuizzes, sum.TotalAttempts, formatScore(sum.AverageScore))
		}
		return nil
	}),
}

var subjectShowCmd = &cobra.Command{
	Use:   "show <subject-id>",
	Short: "Show a subject and its quizzes",
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

		fmt.Fprintf(out, "Name:      %s\n", sub.Name)
		if sub.Description != "" {
			fmt.Fprintf(out, "About:     %s\n", sub.Description)
		}
		fmt.Fprintf(out, "Created:   %s\n", formatTime(sub.CreatedAt))
		fmt.Fprintf(out, "Quizzes:   %d\n", sum.TotalQuizzes)
		fmt.Fprintf(out, "Attempts:  %d\n", sum.TotalAttempts)
		fmt.Fprintf(out, "Average:   %s\n", formatScore(sum.AverageScore))

		quizzes, err := e.store.ListQuizzesBySubject(ctx, sub.ID)
		if err != nil {
			return err
		}
		if len(quizzes) > 0 {
			fmt.Fprintln(out)
			printQuizTable(out, quizzes)
		}
		return nil
	}),
}

func init() {
	subjectCreateCmd.Flags().StringP("description", "d", "", "Short description")

	subjectCmd.AddCommand(subjectCreateCmd)
	subjectCmd.AddCommand(subjectListCmd)
	subjectCmd.AddCommand(subjectShowCmd)
}
