// Package importer is the screen that loads a CSV file into the bank.
package importer

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillbook/internal/quiz"
	"github.com/abhisek/drillbook/internal/screen"
	"github.com/abhisek/drillbook/internal/ui/components"
	"github.com/abhisek/drillbook/internal/ui/layout"
	"github.com/abhisek/drillbook/internal/ui/theme"
)

// importedMsg reports a finished import.
type importedMsg struct {
	gen     int
	session *quiz.Session
}

// ImporterScreen reads a CSV path and imports it.
type ImporterScreen struct {
	ctrl    *quiz.Controller
	session *quiz.Session
	input   components.TextInput
	gen     int
	busy    bool
	done    bool
}

var _ screen.Screen = (*ImporterScreen)(nil)
var _ screen.KeyHintProvider = (*ImporterScreen)(nil)

// New creates the import screen.
func New(ctrl *quiz.Controller) *ImporterScreen {
	s := quiz.NewSession()
	ctrl.Enter(s, quiz.ModeImport)
	return &ImporterScreen{
		ctrl:    ctrl,
		session: s,
		input:   components.NewTextInput("questions.csv", 1024),
	}
}

func (m *ImporterScreen) Title() string {
	return "Import"
}

func (m *ImporterScreen) Init() tea.Cmd {
	m.gen++
	m.busy = false
	m.done = false
	m.ctrl.Enter(m.session, quiz.ModeImport)
	return m.input.Init()
}

func (m *ImporterScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Import"},
		{Key: "Tab", Description: "Menu"},
	}
}

func (m *ImporterScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case importedMsg:
		if msg.gen == m.gen {
			m.busy = false
			m.session = msg.session
			m.done = msg.session.Err == nil
			if m.done {
				m.input.Reset()
			}
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.busy {
			return m, nil
		}
		if msg.String() == "enter" {
			path := m.input.Value()
			if path == "" {
				return m, nil
			}
			return m, m.runImport(path)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ImporterScreen) runImport(path string) tea.Cmd {
	m.busy = true
	s, gen, ctrl := m.session.Clone(), m.gen, m.ctrl
	return func() tea.Msg {
		_, _ = ctrl.Import(context.Background(), s, path)
		return importedMsg{gen: gen, session: s}
	}
}

func (m *ImporterScreen) View(width, height int) string {
	status := theme.Hint.Render(m.session.Message)
	switch {
	case m.busy:
		status = theme.Hint.Render("Importing…")
	case m.session.Err != nil:
		status = theme.Incorrect.Width(width).Render(m.session.Message)
	case m.done:
		status = theme.Correct.Render(m.session.Message)
	}

	return theme.Title.Render("Import questions from CSV") + "\n\n" +
		m.input.View() + "\n\n" +
		status
}
