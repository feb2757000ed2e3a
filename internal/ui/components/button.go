package components

import (
	"github.com/abhisek/drillbook/internal/ui/theme"
)

// Button is a styled, non-interactive button face. The owning screen
// decides which key presses it.
type Button struct {
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
