// Package app is the root Bubble Tea model: a sidebar menu with one entry
// per mode beside the active screen.
package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillbook/internal/quiz"
	"github.com/abhisek/drillbook/internal/router"
	"github.com/abhisek/drillbook/internal/screen"
	"github.com/abhisek/drillbook/internal/screens/exporter"
	"github.com/abhisek/drillbook/internal/screens/importer"
	"github.com/abhisek/drillbook/internal/screens/practice"
	"github.com/abhisek/drillbook/internal/ui/components"
	"github.com/abhisek/drillbook/internal/ui/layout"
)

// Options holds the dependencies injected into the TUI.
type Options struct {
	Controller *quiz.Controller
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	menu   components.Menu
	width  int
	height int
}

// newAppModel creates the app with Solve active and the screen focused.
func newAppModel(opts Options) AppModel {
	ctrl := opts.Controller
	screens := map[quiz.Mode]screen.Screen{
		quiz.ModeSolve:  practice.New(ctrl, quiz.ModeSolve),
		quiz.ModeReview: practice.New(ctrl, quiz.ModeReview),
		quiz.ModeImport: importer.New(ctrl),
		quiz.ModeExport: exporter.New(ctrl),
	}

	items := make([]components.MenuItem, 0, len(quiz.Modes))
	for _, m := range quiz.Modes {
		items = append(items, components.MenuItem{
			Label:  m.String(),
			Action: func() tea.Cmd { return router.Switch(m) },
		})
	}
	menu := components.NewMenu(items)
	menu.Focused = false

	return AppModel{
		router: router.New(screens, quiz.ModeSolve),
		menu:   menu,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.SwitchMsg:
		m.menu.Active = int(msg.Mode)
		m.menu.Selected = int(msg.Mode)
		m.menu.Focused = false
		return m, m.router.Update(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.menu.Focused = !m.menu.Focused
			m.menu.Selected = m.menu.Active
			return m, nil
		case "esc":
			m.menu.Focused = true
			return m, nil
		}
		if m.menu.Focused {
			var cmd tea.Cmd
			m.menu, cmd = m.menu.Update(msg)
			return m, cmd
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the whole frame as a string.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	bodyHeight := layout.BodyHeight(header, footer, m.height)
	content := m.router.View(layout.ContentWidth(m.width), bodyHeight)
	body := layout.RenderBody(m.menu.View(), content, m.width, bodyHeight)

	return layout.RenderFrame(header, body, footer)
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	if m.menu.Focused {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Open"},
			{Key: "Tab", Description: "Back to screen"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	return err
}
