package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/stats"
	"github.com/abhisek/quizvault/internal/ui/theme"
)

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.1f%%", score)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// printScore writes a score line colored by its band. Color is dropped
// when w is not a terminal.
func printScore(w io.Writer, label string, score float64) {
	styled := theme.Score(score).Render(formatScore(score))
	lipgloss.Fprintf(w, "%s%s  (%s)\n", label, styled, stats.ScoreBand(score))
}

func printQuizTable(w io.Writer, quizzes []quiz.Quiz) {
	fmt.Fprintf(w, "%-36s  %-32s  %9s  %-10s  %-9s  %s\n", "ID", "Title", "Questions", "Difficulty", "Type", "Created")
	fmt.Fprintln(w, strings.Repeat("─", 120))
	for _, q := range quizzes {
		fmt.Fprintf(w, "%-36s  %-32s  %9d  %-10s  %-9s  %s\n",
			q.ID, truncate(q.Title, 32), len(q.Questions), orDash(string(q.Difficulty)), orDash(string(q.Kind)), formatTime(q.CreatedAt))
	}
}

func printResultTable(w io.Writer, results []quiz.Result) {
	fmt.Fprintf(w, "%-36s  %-36s  %7s  %7s  %6s  %s\n", "ID", "Quiz", "Score", "Correct", "Time", "Completed")
	fmt.Fprintln(w, strings.Repeat("─", 120))
	for _, r := range results {
		fmt.Fprintf(w, "%-36s  %-36s  %7s  %7s  %6s  %s\n",
			r.ID, r.QuizID, formatScore(r.Score),
			fmt.Sprintf("%d/%d", r.CorrectAnswers, r.TotalQuestions),
			formatDuration(r.Duration()), formatTime(r.CompletedAt))
	}
}

func printResult(w io.Writer, title string, r *quiz.Result) {
	fmt.Fprintf(w, "Result:    %s\n", r.ID)
	if title != "" {
		fmt.Fprintf(w, "Quiz:      %s\n", title)
	}
	printScore(w, "Score:     ", r.Score)
	fmt.Fprintf(w, "Correct:   %d of %d\n", r.CorrectAnswers, r.TotalQuestions)
	fmt.Fprintf(w, "Time:      %s\n", formatDuration(r.Duration()))
	fmt.Fprintf(w, "Completed: %s\n", formatTime(r.CompletedAt))
	fmt.Fprintln(w)

	for i, aq := range r.AnsweredQuestions {
		mark := theme.Correct.Render("✓")
		if !aq.UserIsCorrect {
			mark = theme.Incorrect.Render("✗")
		}
		lipgloss.Fprintf(w, "%s %d. %s\n", mark, i+1, aq.Question)
		fmt.Fprintf(w, "     Your answer:    %s\n", aq.UserAnswer)
		if !aq.UserIsCorrect {
			fmt.Fprintf(w, "     Correct answer: %s\n", aq.CorrectAnswer)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
