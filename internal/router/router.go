// Package router switches between the screens behind the sidebar menu.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillbook/internal/quiz"
	"github.com/abhisek/drillbook/internal/screen"
)

// SwitchMsg asks the router to show the screen for Mode.
type SwitchMsg struct {
	Mode quiz.Mode
}

// Switch returns a command emitting SwitchMsg.
func Switch(m quiz.Mode) tea.Cmd {
	return func() tea.Msg { return SwitchMsg{Mode: m} }
}

// Router holds one screen per mode and shows one of them.
type Router struct {
	screens map[quiz.Mode]screen.Screen
	active  quiz.Mode
}

// New creates a Router showing initial.
func New(screens map[quiz.Mode]screen.Screen, initial quiz.Mode) *Router {
	return &Router{screens: screens, active: initial}
}

// Init initializes the starting screen.
func (r *Router) Init() tea.Cmd {
	if s := r.Active(); s != nil {
		return s.Init()
	}
	return nil
}

// Show activates the screen for m and runs its Init, which resets it even
// when it was already active. Unknown modes are ignored.
func (r *Router) Show(m quiz.Mode) tea.Cmd {
	s, ok := r.screens[m]
	if !ok {
		return nil
	}
	r.active = m
	return s.Init()
}

// Active returns the screen on display.
func (r *Router) Active() screen.Screen {
	return r.screens[r.active]
}

// ActiveMode returns the mode on display.
func (r *Router) ActiveMode() quiz.Mode {
	return r.active
}

// Update handles SwitchMsg and forwards everything else. Key presses only
// reach the active screen; other messages reach every screen, so a result
// from a background command finds the screen that started it.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SwitchMsg:
		return r.Show(msg.Mode)
	case tea.KeyMsg:
		active := r.Active()
		if active == nil {
			return nil
		}
		updated, cmd := active.Update(msg)
		r.screens[r.active] = updated
		return cmd
	}

	var cmds []tea.Cmd
	for m, s := range r.screens {
		updated, cmd := s.Update(msg)
		r.screens[m] = updated
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
