// Package summary shows a graded attempt and, on request, its AI analysis.
package summary

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvault/internal/analysis"
	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/screen"
	"github.com/abhisek/quizvault/internal/stats"
	"github.com/abhisek/quizvault/internal/ui/layout"
	"github.com/abhisek/quizvault/internal/ui/theme"
)

// AnalyzeFunc produces a performance report for a saved result.
type AnalyzeFunc func(ctx context.Context, resultID string) (*analysis.Report, error)

type analyzedMsg struct {
	report *analysis.Report
	err    error
}

// SummaryScreen displays the result of an attempt.
type SummaryScreen struct {
	ctx       context.Context
	title     string
	result    *quiz.Result
	analyze   AnalyzeFunc
	report    *analysis.Report
	analyzing bool
	errMsg    string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. analyze may be nil when no provider is
// configured.
func New(ctx context.Context, title string, result *quiz.Result, analyze AnalyzeFunc) *SummaryScreen {
	return &SummaryScreen{ctx: ctx, title: title, result: result, analyze: analyze}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results: " + s.title
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Q/Enter", Description: "Done"}}
	if s.analyze != nil && s.report == nil && !s.analyzing {
		hints = append(hints, layout.KeyHint{Key: "A", Description: "Analyze"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzedMsg:
		s.analyzing = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.report = msg.report
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "enter":
			return s, tea.Quit
		case "a":
			if s.analyze == nil || s.analyzing || s.report != nil {
				return s, nil
			}
			s.analyzing = true
			s.errMsg = ""
			ctx, id, analyze := s.ctx, s.result.ID, s.analyze
			return s, func() tea.Msg {
				report, err := analyze(ctx, id)
				return analyzedMsg{report: report, err: err}
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	if r == nil {
		return ""
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	score := theme.Score(r.Score).Render(fmt.Sprintf("%.1f%%", r.Score))
	b.WriteString(center(score + theme.Subtitle.Render(fmt.Sprintf("  (%s)", stats.ScoreBand(r.Score)))))
	b.WriteString("\n")

	line := fmt.Sprintf("%d of %d correct", r.CorrectAnswers, r.TotalQuestions)
	if d := r.Duration(); d > 0 {
		line += fmt.Sprintf("    Time: %d:%02d", int(d.Minutes()), int(d.Seconds())%60)
	}
	b.WriteString(center(theme.Body.Render(line)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(center(divider))
	b.WriteString("\n")

	for i, aq := range r.AnsweredQuestions {
		mark := theme.Correct.Render("✓")
		if !aq.UserIsCorrect {
			mark = theme.Incorrect.Render("✗")
		}
		fmt.Fprintf(&b, "  %s %d. %s\n", mark, i+1, aq.Question)
		b.WriteString(theme.Subtitle.Render("      Your answer: " + aq.UserAnswer))
		b.WriteString("\n")
		if !aq.UserIsCorrect {
			b.WriteString(theme.Subtitle.Render("      Correct answer: " + aq.CorrectAnswer))
			b.WriteString("\n")
		}
	}

	switch {
	case s.analyzing:
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  Analyzing your performance..."))
	case s.report != nil:
		b.WriteString("\n")
		b.WriteString(RenderReport(s.report))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render("  " + s.errMsg))
	}
	return b.String()
}

// RenderReport formats strengths and improvements as a styled list.
func RenderReport(r *analysis.Report) string {
	var b strings.Builder
	section := func(title string, points []analysis.Point, style lipgloss.Style) {
		b.WriteString(style.Render("  " + title))
		b.WriteString("\n")
		if len(points) == 0 {
			b.WriteString(theme.Hint.Render("    none noted"))
			b.WriteString("\n")
		}
		for _, p := range points {
			fmt.Fprintf(&b, "    • %s: %s\n", theme.Body.Bold(true).Render(p.Topic), p.Description)
		}
	}
	section("Strengths", r.Strengths, theme.Correct)
	section("Areas to improve", r.Improvements, lipgloss.NewStyle().Foreground(theme.Warning).Bold(true))
	return b.String()
}
