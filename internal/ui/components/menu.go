package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillbook/internal/ui/theme"
)

// MenuItem represents a single entry in the sidebar menu.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu is a vertical navigation menu. Active marks the entry whose screen
// is shown; Selected is the cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
	Active   int
	Focused  bool
}

// NewMenu creates a menu with the first item active.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items, Focused: true}
}

// Update handles keyboard navigation. Enter activates the item under the
// cursor and runs its action.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !m.Focused {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "enter", "space":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			m.Active = m.Selected
			if action := m.Items[m.Selected].Action; action != nil {
				return m, action()
			}
		}
	}
	return m, nil
}

// View renders the menu inside the sidebar box.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		marker := "  "
		if i == m.Active {
			marker = "● "
		}
		line := marker + item.Label

		switch {
		case i == m.Selected && m.Focused:
			b.WriteString(theme.Selected.Render("▸ " + line))
		case i == m.Active:
			b.WriteString(theme.Body.Bold(true).Render("  " + line))
		default:
			b.WriteString(theme.Hint.Render("  " + line))
		}
		b.WriteString("\n")
	}

	style := theme.Sidebar
	if m.Focused {
		style = theme.SidebarFocused
	}
	return style.Render(strings.TrimSuffix(b.String(), "\n"))
}

// Height returns the rendered height.
func (m Menu) Height() int {
	return lipgloss.Height(m.View())
}
