package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizvault/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the bundled sample subjects, quizzes and attempts",
	Long:  "Load the bundled sample data once. Later runs do nothing.",
	RunE: withEnv(envOptions{}, func(cmd *cobra.Command, args []string, e *env) error {
		rep, err := seed.Preload(cmd.Context(), e.store, e.logger)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if rep.AlreadyLoaded {
			fmt.Fprintln(out, "Sample data already loaded.")
			return nil
		}
		fmt.Fprintf(out, "Loaded %d subjects, %d quizzes and %d results.\n", rep.Subjects, rep.Quizzes, rep.Results)
		return nil
	}),
}
