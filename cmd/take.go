package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizvault/internal/analysis"
	"github.com/abhisek/quizvault/internal/app"
	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/scoring"
	"github.com/abhisek/quizvault/internal/screens/picker"
	"github.com/abhisek/quizvault/internal/vault"
)

var takeCmd = &cobra.Command{
	Use:   "take [quiz-id]",
	Short: "Take a quiz",
	Long: `Take a quiz interactively. Without a quiz id a picker lists every stored quiz.

With --answers the attempt is graded without the terminal UI. Answers are
1-based question=option pairs; options may also be letters, e.g. "1=2,2=a,4=c".
Questions left out count as unanswered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetString("answers")
		scripted := cmd.Flags().Changed("answers")

		e, err := setup(cmd, envOptions{tui: !scripted})
		if err != nil {
			return err
		}
		defer e.Close()

		if scripted {
			if len(args) == 0 {
				return errors.New("--answers needs a quiz id")
			}
			return takeScripted(cmd, e, args[0], answers)
		}
		return takeInteractive(cmd, e, args)
	},
}

func takeScripted(cmd *cobra.Command, e *env, quizID, answers string) error {
	selections, err := scoring.ParseSelections(answers)
	if err != nil {
		return err
	}
	result, err := e.svc.SubmitAttempt(cmd.Context(), vault.Attempt{
		QuizID:     quizID,
		Selections: selections,
		Source:     vault.SourceInteractive,
	})
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), "", result)
	return nil
}

func takeInteractive(cmd *cobra.Command, e *env, args []string) error {
	ctx := cmd.Context()
	opts := app.Options{
		Submit: func(ctx context.Context, quizID string, selections map[int]int, startedAt time.Time) (*quiz.Result, error) {
			return e.svc.SubmitAttempt(ctx, vault.Attempt{
				QuizID:     quizID,
				Selections: selections,
				StartedAt:  startedAt,
				Source:     vault.SourceInteractive,
			})
		},
		Analyze: func(ctx context.Context, resultID string) (*analysis.Report, error) {
			return e.svc.AnalyzeResult(ctx, resultID)
		},
		Load: func(ctx context.Context) ([]picker.Group, error) {
			subjects, err := e.store.ListSubjects(ctx)
			if err != nil {
				return nil, err
			}
			groups := make([]picker.Group, 0, len(subjects))
			for _, s := range subjects {
				quizzes, err := e.store.ListQuizzesBySubject(ctx, s.ID)
				if err != nil {
					return nil, err
				}
				groups = append(groups, picker.Group{Subject: s, Quizzes: quizzes})
			}
			return groups, nil
		},
	}

	if len(args) == 1 {
		q, err := e.store.GetQuiz(ctx, args[0])
		if err != nil {
			return err
		}
		if q == nil {
			return fmt.Errorf("quiz %s not found", args[0])
		}
		opts.Quiz = q
	}

	result, err := app.Run(ctx, opts)
	if errors.Is(err, app.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Quiz closed without submitting; nothing was saved.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved result %s\n", result.ID)
	printScore(cmd.OutOrStdout(), "Score: ", result.Score)
	return nil
}

func init() {
	takeCmd.Flags().String("answers", "", `Grade without the UI, e.g. "1=2,3=1"`)
}
