// Package runner is the interactive quiz-taking screen.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/screen"
	"github.com/abhisek/quizvault/internal/ui/components"
	"github.com/abhisek/quizvault/internal/ui/layout"
	"github.com/abhisek/quizvault/internal/ui/theme"
)

// SubmitFunc grades and stores an attempt. selections maps 0-based question
// index to 0-based option index.
type SubmitFunc func(ctx context.Context, quizID string, selections map[int]int, startedAt time.Time) (*quiz.Result, error)

// FinishedMsg is emitted once the attempt has been saved.
type FinishedMsg struct {
	Result *quiz.Result
}

type submittedMsg struct {
	result *quiz.Result
	err    error
}

// RunnerScreen walks through the questions of one quiz.
type RunnerScreen struct {
	ctx        context.Context
	quiz       *quiz.Quiz
	questions  []components.MultiChoice
	current    int
	startedAt  time.Time
	now        func() time.Time
	submit     SubmitFunc
	confirming bool
	submitting bool
	errMsg     string
}

var _ screen.Screen = (*RunnerScreen)(nil)
var _ screen.KeyHintProvider = (*RunnerScreen)(nil)
var _ screen.StatusProvider = (*RunnerScreen)(nil)

// New creates a runner for q. now may be nil.
func New(ctx context.Context, q *quiz.Quiz, submit SubmitFunc, now func() time.Time) *RunnerScreen {
	if now == nil {
		now = time.Now
	}
	questions := make([]components.MultiChoice, len(q.Questions))
	for i, question := range q.Questions {
		options := make([]string, len(question.AnswerOptions))
		for j, o := range question.AnswerOptions {
			options[j] = o.Text
		}
		questions[i] = components.NewMultiChoice(fmt.Sprintf("%d. %s", i+1, question.Question), options)
	}
	return &RunnerScreen{
		ctx:       ctx,
		quiz:      q,
		questions: questions,
		now:       now,
		submit:    submit,
	}
}

// Init records the start time; the first question is on screen from here.
func (s *RunnerScreen) Init() tea.Cmd {
	if s.startedAt.IsZero() {
		s.startedAt = s.now()
	}
	return nil
}

func (s *RunnerScreen) Title() string {
	return s.quiz.Title
}

func (s *RunnerScreen) Status() string {
	return fmt.Sprintf("%d/%d answered", s.answered(), len(s.questions))
}

func (s *RunnerScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter/1-9", Description: "Choose"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "S", Description: "Skip"},
		{Key: "F", Description: "Finish"},
	}
}

// StartedAt returns when the first question was shown.
func (s *RunnerScreen) StartedAt() time.Time {
	return s.startedAt
}

// Selections returns the chosen options of answered questions.
func (s *RunnerScreen) Selections() map[int]int {
	out := make(map[int]int)
	for i, q := range s.questions {
		if q.Answered() {
			out[i] = q.Chosen
		}
	}
	return out
}

func (s *RunnerScreen) answered() int {
	n := 0
	for _, q := range s.questions {
		if q.Answered() {
			n++
		}
	}
	return n
}

func (s *RunnerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		s.submitting = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		result := msg.result
		return s, func() tea.Msg { return FinishedMsg{Result: result} }

	case tea.KeyMsg:
		if s.submitting {
			return s, nil
		}
		if s.confirming {
			return s.handleConfirmKey(msg)
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *RunnerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if len(s.questions) == 0 {
		s.confirming = true
		return s, nil
	}

	switch msg.String() {
	case "right", "l", "n", "tab", "s":
		s.advance()
		return s, nil
	case "left", "h", "p", "shift+tab":
		if s.current > 0 {
			s.current--
		}
		return s, nil
	case "f":
		s.confirming = true
		return s, nil
	}

	var chose bool
	s.questions[s.current], chose = s.questions[s.current].Update(msg)
	if chose {
		s.errMsg = ""
		s.advance()
	}
	return s, nil
}

// advance moves to the next question, or asks to submit after the last.
func (s *RunnerScreen) advance() {
	if s.current < len(s.questions)-1 {
		s.current++
		return
	}
	s.confirming = true
}

func (s *RunnerScreen) handleConfirmKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		s.submitting = true
		s.errMsg = ""
		return s, s.submitCmd()
	case "n", "N", "esc":
		s.confirming = false
	}
	return s, nil
}

func (s *RunnerScreen) submitCmd() tea.Cmd {
	ctx, quizID, selections, startedAt, submit := s.ctx, s.quiz.ID, s.Selections(), s.startedAt, s.submit
	return func() tea.Msg {
		result, err := submit(ctx, quizID, selections, startedAt)
		return submittedMsg{result: result, err: err}
	}
}

func (s *RunnerScreen) View(width, height int) string {
	var b strings.Builder

	total := len(s.questions)
	pct := 0.0
	if total > 0 {
		pct = float64(s.answered()) / float64(total)
	}
	b.WriteString(components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", min(s.current+1, total), total),
		pct, true, min(width-4, 72)).View())
	b.WriteString("\n\n")

	if total > 0 {
		card := theme.Card.Width(min(width-4, 76)).Render(s.questions[s.current].View())
		b.WriteString(card)
		b.WriteString("\n")
	}

	switch {
	case s.submitting:
		b.WriteString(theme.Hint.Render("  Saving your answers..."))
	case s.confirming:
		unanswered := total - s.answered()
		prompt := "  Submit your answers? (y/n)"
		if unanswered > 0 {
			prompt = fmt.Sprintf("  %d question(s) unanswered. Submit anyway? (y/n)", unanswered)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(prompt))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render("  " + s.errMsg))
	}
	return b.String()
}
