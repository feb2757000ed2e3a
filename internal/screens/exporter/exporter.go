// Package exporter is the screen that writes the bank to a CSV file.
package exporter

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillbook/internal/quiz"
	"github.com/abhisek/drillbook/internal/screen"
	"github.com/abhisek/drillbook/internal/ui/components"
	"github.com/abhisek/drillbook/internal/ui/layout"
	"github.com/abhisek/drillbook/internal/ui/theme"
)

type exportedMsg struct {
	gen     int
	session *quiz.Session
}

// ExporterScreen exports the bank to the configured file on Enter.
type ExporterScreen struct {
	ctrl    *quiz.Controller
	session *quiz.Session
	gen     int
	busy    bool
	done    bool
}

var _ screen.Screen = (*ExporterScreen)(nil)
var _ screen.KeyHintProvider = (*ExporterScreen)(nil)

// New creates the export screen.
func New(ctrl *quiz.Controller) *ExporterScreen {
	s := quiz.NewSession()
	ctrl.Enter(s, quiz.ModeExport)
	return &ExporterScreen{ctrl: ctrl, session: s}
}

func (m *ExporterScreen) Title() string {
	return "Export"
}

func (m *ExporterScreen) Init() tea.Cmd {
	m.gen++
	m.busy = false
	m.done = false
	m.ctrl.Enter(m.session, quiz.ModeExport)
	return nil
}

func (m *ExporterScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Export"},
		{Key: "Tab", Description: "Menu"},
	}
}

func (m *ExporterScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportedMsg:
		if msg.gen == m.gen {
			m.busy = false
			m.session = msg.session
			m.done = msg.session.Err == nil
		}
	case tea.KeyPressMsg:
		if msg.String() == "enter" && !m.busy {
			return m, m.runExport()
		}
	}
	return m, nil
}

func (m *ExporterScreen) runExport() tea.Cmd {
	m.busy = true
	s, gen, ctrl := m.session.Clone(), m.gen, m.ctrl
	return func() tea.Msg {
		_, _ = ctrl.Export(context.Background(), s)
		return exportedMsg{gen: gen, session: s}
	}
}

func (m *ExporterScreen) View(width, height int) string {
	button := components.Button{Label: "Export to " + m.ctrl.ExportFile(), Active: !m.busy}

	status := theme.Hint.Render(m.session.Message)
	switch {
	case m.busy:
		status = theme.Hint.Render("Exporting…")
	case m.session.Err != nil:
		status = theme.Incorrect.Width(width).Render(m.session.Message)
	case m.done:
		status = theme.Correct.Render(m.session.Message)
	}

	return theme.Title.Render("Export questions to CSV") + "\n\n" +
		button.View() + "\n\n" +
		status
}
