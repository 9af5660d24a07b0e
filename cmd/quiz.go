package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizvault/internal/app"
	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/quizgen"
	"github.com/abhisek/quizvault/internal/vault"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Import, generate and inspect quizzes",
}

var quizImportCmd = &cobra.Command{
	Use:   "import <subject-id> <file.json>",
	Short: "Import a quiz from a JSON file",
	Long: `Import a quiz from a JSON file of the form
  {"title": "...", "difficulty": "Easy|Medium|Hard", "type": "Numerical|Theory",
   "questions": [{"question": "...", "answerOptions": [{"text": "...", "isCorrect": true}, ...]}]}
Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		data, err := readInput(cmd, args[1])
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		kind, _ := cmd.Flags().GetString("type")

		q, err := e.svc.ImportQuiz(cmd.Context(), args[0], data, vault.ImportOptions{
			Title:      title,
			Difficulty: difficulty,
			Kind:       kind,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q with %d questions (%s)\n", q.Title, len(q.Questions), q.ID)
		return nil
	}),
}

var quizGenerateCmd = &cobra.Command{
	Use:   "generate <subject-id>",
	Short: "Generate a quiz with the configured LLM",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		title, _ := cmd.Flags().GetString("title")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		kind, _ := cmd.Flags().GetString("type")

		if !slices.Contains(quizgen.Counts, count) {
			return &quiz.ValidationError{Field: "count", Message: fmt.Sprintf("count must be one of %v", quizgen.Counts)}
		}

		if strings.TrimSpace(topic) == "" {
			var err error
			topic, err = app.Prompt(ctx, "What should the quiz be about?", "e.g. slow sand filtration")
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Generating %d questions about %q...\n", count, topic)
		q, err := e.svc.GenerateQuiz(ctx, vault.GenerateRequest{
			SubjectID:  args[0],
			Title:      title,
			Topic:      topic,
			Count:      count,
			Difficulty: difficulty,
			Kind:       kind,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %q with %d questions (%s)\n", q.Title, len(q.Questions), q.ID)
		return nil
	}),
}

var quizListCmd = &cobra.Command{
	Use:   "list [subject-id]",
	Short: "List quizzes, optionally for one subject",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		var subjectIDs []string
		if len(args) == 1 {
			subjectIDs = args
		} else {
			subjects, err := e.store.ListSubjects(ctx)
			if err != nil {
				return err
			}
			for _, s := range subjects {
				subjectIDs = append(subjectIDs, s.ID)
			}
		}

		var all []quiz.Quiz
		for _, id := range subjectIDs {
			quizzes, err := e.store.ListQuizzesBySubject(ctx, id)
			if err != nil {
				return err
			}
			all = append(all, quizzes...)
		}
		if len(all) == 0 {
			fmt.Fprintln(out, "No quizzes found.")
			return nil
		}
		printQuizTable(out, all)
		return nil
	}),
}

var quizShowCmd = &cobra.Command{
	Use:   "show <quiz-id>",
	Short: "Print a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		out := cmd.OutOrStdout()
		reveal, _ := cmd.Flags().GetBool("reveal")

		q, err := e.store.GetQuiz(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if q == nil {
			return fmt.Errorf("quiz %s not found", args[0])
		}

		fmt.Fprintf(out, "%s\n", q.Title)
		fmt.Fprintf(out, "Difficulty: %s   Type: %s   Questions: %d\n\n", orDash(string(q.Difficulty)), orDash(string(q.Kind)), len(q.Questions))
		for i, question := range q.Questions {
			fmt.Fprintf(out, "%d. %s\n", i+1, question.Question)
			for j, opt := range question.AnswerOptions {
				mark := " "
				if reveal && opt.IsCorrect {
					mark = "*"
				}
				fmt.Fprintf(out, "   %s %c) %s\n", mark, 'a'+rune(j), opt.Text)
			}
			fmt.Fprintln(out)
		}
		return nil
	}),
}

// readInput reads a file argument, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func addQuizMetaFlags(c *cobra.Command) {
	c.Flags().String("title", "", "Quiz title")
	c.Flags().String("difficulty", "", "Easy, Medium or Hard")
	c.Flags().String("type", "", "Numerical or Theory")
}

func init() {
	addQuizMetaFlags(quizImportCmd)
	addQuizMetaFlags(quizGenerateCmd)
	quizGenerateCmd.Flags().StringP("topic", "t", "", "What the questions should cover (prompted when empty)")
	quizGenerateCmd.Flags().IntP("count", "n", quizgen.DefaultCount, fmt.Sprintf("Number of questions, one of %v", quizgen.Counts))
	quizShowCmd.Flags().Bool("reveal", false, "Mark the correct options")

	quizCmd.AddCommand(quizImportCmd)
	quizCmd.AddCommand(quizGenerateCmd)
	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizShowCmd)
}
