package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quizvault",
	Short: "Quiz bank with AI-authored quizzes and performance analysis",
	Long: "QuizVault keeps subjects, quizzes and graded attempts in a local database. " +
		"Quizzes can be imported from JSON or generated by an LLM, and results can be analyzed for strengths and weak spots.",
	SilenceUsage: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides QUIZVAULT_DB)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-file", "", "Write JSON logs to this file, rotated")
	pf.String("llm-provider", "", "LLM provider: gemini, openai, anthropic, openrouter, mock")
	pf.BoolP("verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(subjectCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
