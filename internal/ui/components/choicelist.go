package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillbook/internal/ui/theme"
)

// ChoiceList renders answer options as radio buttons (one answer) or
// checkboxes (several). It holds no selection state of its own; the caller
// passes the current selection in.
type ChoiceList struct {
	Options  []string
	Selected []bool
	Multi    bool
	Cursor   int

	// Reveal colors the options once the answer has been graded.
	Reveal  bool
	Correct []string
}

// Move shifts the cursor by delta, clamped to the list.
func (c *ChoiceList) Move(delta int) {
	c.Cursor = min(max(c.Cursor+delta, 0), max(len(c.Options)-1, 0))
}

// View renders the list.
func (c ChoiceList) View(width int) string {
	correct := make(map[string]bool, len(c.Correct))
	for _, s := range c.Correct {
		correct[s] = true
	}

	var b strings.Builder
	for i, opt := range c.Options {
		on := i < len(c.Selected) && c.Selected[i]

		box := "( )"
		if on {
			box = "(•)"
		}
		if c.Multi {
			box = "[ ]"
			if on {
				box = "[x]"
			}
		}

		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s", prefix, box, opt)

		var style lipgloss.Style
		switch {
		case c.Reveal && correct[opt]:
			style = theme.Correct
		case c.Reveal && on:
			style = theme.Incorrect
		case i == c.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
