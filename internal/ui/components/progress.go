package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/drillbook/internal/ui/theme"
)

// ProgressBar shows Done out of Total as a bar followed by the counts.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label))
		b.WriteString("  ")
	}

	counts := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	barWidth := max(p.Width-len(p.Label)-2-len(counts), 4)

	filled := 0
	if p.Total > 0 {
		filled = min(max(barWidth*p.Done/p.Total, 0), barWidth)
	}

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))
	b.WriteString(theme.Hint.Render(counts))
	return b.String()
}
