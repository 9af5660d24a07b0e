package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizvault/internal/quiz"
)

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Inspect graded attempts",
}

var resultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List results, newest first",
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		subjectID, _ := cmd.Flags().GetString("subject")
		quizID, _ := cmd.Flags().GetString("quiz")
		limit, _ := cmd.Flags().GetInt("limit")

		var (
			results []quiz.Result
			err     error
		)
		switch {
		case subjectID != "" && quizID != "":
			return errors.New("use either --subject or --quiz, not both")
		case subjectID != "":
			results, err = e.store.ListQuizResultsBySubject(ctx, subjectID)
		case quizID != "":
			results, err = e.store.ListQuizResultsByQuiz(ctx, quizID)
		default:
			results, err = e.store.ListRecentResults(ctx, limit)
		}
		if err != nil {
			return err
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
			return nil
		}
		printResultTable(cmd.OutOrStdout(), results)
		return nil
	}),
}

var resultShowCmd = &cobra.Command{
	Use:   "show <result-id>",
	Short: "Show one result with every answer",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		r, err := e.store.GetQuizResult(ctx, args[0])
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("result %s not found", args[0])
		}
		title := ""
		if q, err := e.store.GetQuiz(ctx, r.QuizID); err == nil && q != nil {
			title = q.Title
		}
		printResult(cmd.OutOrStdout(), title, r)
		return nil
	}),
}

func init() {
	resultListCmd.Flags().String("subject", "", "Only results for this subject")
	resultListCmd.Flags().String("quiz", "", "Only results for this quiz")
	resultListCmd.Flags().IntP("limit", "n", 20, "Number of results to show")

	resultCmd.AddCommand(resultListCmd)
	resultCmd.AddCommand(resultShowCmd)
}
