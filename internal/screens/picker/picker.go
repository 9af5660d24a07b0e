// Package picker lists stored quizzes grouped by subject.
package picker

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/screen"
	"github.com/abhisek/quizvault/internal/ui/components"
	"github.com/abhisek/quizvault/internal/ui/layout"
	"github.com/abhisek/quizvault/internal/ui/theme"
)

// Group is a subject with its quizzes.
type Group struct {
	Subject quiz.Subject
	Quizzes []quiz.Quiz
}

// LoadFunc returns the quizzes to choose from.
type LoadFunc func(ctx context.Context) ([]Group, error)

// SelectedMsg is emitted when a quiz is picked.
type SelectedMsg struct {
	Quiz quiz.Quiz
}

type loadedMsg struct {
	groups []Group
	err    error
}

// PickerScreen lets the user choose a quiz to take.
type PickerScreen struct {
	ctx    context.Context
	load   LoadFunc
	menu   components.Menu
	loaded bool
	empty  bool
	errMsg string
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// New creates a PickerScreen.
func New(ctx context.Context, load LoadFunc) *PickerScreen {
	return &PickerScreen{ctx: ctx, load: load}
}

func (s *PickerScreen) Init() tea.Cmd {
	ctx, load := s.ctx, s.load
	return func() tea.Msg {
		groups, err := load(ctx)
		return loadedMsg{groups: groups, err: err}
	}
}

func (s *PickerScreen) Title() string {
	return "Choose a quiz"
}

func (s *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.setGroups(msg.groups)
		return s, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PickerScreen) setGroups(groups []Group) {
	var items []components.MenuItem
	for _, g := range groups {
		if len(g.Quizzes) == 0 {
			continue
		}
		items = append(items, components.MenuItem{Label: g.Subject.Name, Disabled: true})
		for _, q := range g.Quizzes {
			items = append(items, components.MenuItem{
				Label:  q.Title,
				Detail: detail(q),
				Action: func() tea.Cmd {
					return func() tea.Msg { return SelectedMsg{Quiz: q} }
				},
			})
		}
	}
	s.empty = len(items) == 0
	s.menu = components.NewMenu(items)
}

func detail(q quiz.Quiz) string {
	d := fmt.Sprintf("%d questions", len(q.Questions))
	if q.Difficulty != "" {
		d += ", " + string(q.Difficulty)
	}
	return d
}

func (s *PickerScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return theme.ErrorText.Render("\n  " + s.errMsg)
	case !s.loaded:
		return theme.Hint.Render("\n  Loading quizzes...")
	case s.empty:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			"\n  No quizzes yet. Import one with `quizvault quiz import` or run `quizvault seed`.")
	}
	return "\n" + s.menu.View()
}
