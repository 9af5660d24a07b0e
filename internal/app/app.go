// Package app hosts the interactive terminal UI.
package app

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/router"
	"github.com/abhisek/quizvault/internal/screen"
	"github.com/abhisek/quizvault/internal/screens/picker"
	"github.com/abhisek/quizvault/internal/screens/runner"
	"github.com/abhisek/quizvault/internal/screens/summary"
	"github.com/abhisek/quizvault/internal/ui/layout"
)

// Options configures a quiz-taking session.
type Options struct {
	// Quiz starts the runner directly. When nil, a picker built from Load
	// is shown first.
	Quiz *quiz.Quiz
	Load picker.LoadFunc

	Submit  runner.SubmitFunc
	Analyze summary.AnalyzeFunc
	Now     func() time.Time
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx    context.Context
	opts   Options
	router *router.Router
	result *quiz.Result
	title  string
	width  int
	height int
}

func newAppModel(ctx context.Context, opts Options) AppModel {
	var (
		initial screen.Screen
		title   string
	)
	if opts.Quiz != nil {
		initial = runner.New(ctx, opts.Quiz, opts.Submit, opts.Now)
		title = opts.Quiz.Title
	} else {
		initial = picker.New(ctx, opts.Load)
	}
	return AppModel{
		ctx:    ctx,
		opts:   opts,
		router: router.New(initial),
		title:  title,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case picker.SelectedMsg:
		q := msg.Quiz
		m.title = q.Title
		return m, m.router.Push(runner.New(m.ctx, &q, m.opts.Submit, m.opts.Now))

	case runner.FinishedMsg:
		m.result = msg.Result
		return m, m.router.Replace(summary.New(m.ctx, m.title, msg.Result, m.opts.Analyze))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 && m.result == nil {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			hints = kp.KeyHints()
		}
	}
	if m.router.Depth() > 1 && m.result == nil {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// ErrAborted is returned when the user leaves before submitting.
var ErrAborted = errors.New("quiz aborted before submitting")

// Run starts the Bubble Tea program and returns the saved result.
func Run(ctx context.Context, opts Options) (*quiz.Result, error) {
	if opts.Submit == nil {
		return nil, errors.New("app: submit function is required")
	}
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(AppModel); ok && m.result != nil {
		return m.result, nil
	}
	return nil, ErrAborted
}
