package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillbook/internal/ui/layout"
)

// Screen is one menu entry's page.
type Screen interface {
	// Init runs every time the screen becomes active, so it is where a
	// screen resets its session.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header, footer and sidebar).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is an optional interface for screens that put a short
// status string in the header.
type StatusProvider interface {
	Status() string
}
