package app

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizvault/internal/ui/components"
	"github.com/abhisek/quizvault/internal/ui/theme"
)

// ErrCancelled is returned when a prompt is dismissed.
var ErrCancelled = errors.New("prompt cancelled")

type promptModel struct {
	label     string
	input     components.TextInput
	done      bool
	cancelled bool
}

func (m promptModel) Init() tea.Cmd {
	return m.input.Init()
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if m.input.Value() != "" {
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() tea.View {
	if m.done || m.cancelled {
		return tea.NewView("")
	}
	return tea.NewView(theme.Title.Render(m.label) + "\n" + m.input.View() + "\n" +
		theme.Hint.Render("enter to confirm, esc to cancel") + "\n")
}

// Prompt asks for one line of text inline, without taking over the screen.
func Prompt(ctx context.Context, label, placeholder string) (string, error) {
	m := promptModel{label: label, input: components.NewTextInput(placeholder, 200)}
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	pm := final.(promptModel)
	if pm.cancelled || !pm.done {
		return "", ErrCancelled
	}
	return pm.input.Value(), nil
}
