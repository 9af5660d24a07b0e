package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <quiz-id> <answers.json>",
	Short: "Record an attempt from a pre-graded answer sheet",
	Long: `Record an attempt from an answer sheet of the form
  {"quizTitle": "...", "answeredQuestions": [{"question": "...", "userAnswer": "...",
   "userIsCorrect": true, "correctAnswer": "..."}, ...]}
The sheet needs one entry per quiz question. Its score is recomputed.
Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		data, err := readInput(cmd, args[1])
		if err != nil {
			return err
		}
		result, err := e.svc.UploadAnswerSheet(cmd.Context(), args[0], data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved result %s\n", result.ID)
		printScore(cmd.OutOrStdout(), "Score: ", result.Score)
		return nil
	}),
}
