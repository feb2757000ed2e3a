package practice

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillbook/internal/quiz"
	"github.com/abhisek/drillbook/internal/ui/components"
	"github.com/abhisek/drillbook/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	s := p.session
	var b strings.Builder

	b.WriteString(components.ProgressBar{
		Label: "Cleared",
		Done:  p.stats.Total - p.stats.Missed,
		Total: p.stats.Total,
		Width: min(width, 60),
	}.View())
	b.WriteString("\n")
	if p.mode == quiz.ModeReview {
		b.WriteString(renderFilters(s))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width)))
	b.WriteString("\n\n")

	if s.Question == nil {
		b.WriteString(p.renderStatus(s))
		return b.String()
	}

	q := s.Question
	b.WriteString(theme.Title.Width(width).Render(q.Text))
	b.WriteString("\n\n")

	list := components.ChoiceList{
		Options:  q.Options,
		Selected: s.Selected,
		Multi:    s.MultiAnswer(),
		Cursor:   p.cursor,
		Reveal:   s.Phase == quiz.PhaseGraded,
		Correct:  q.Correct,
	}
	b.WriteString(list.View(width))
	b.WriteString("\n")
	b.WriteString(p.renderStatus(s))

	if s.ShowExplanation {
		b.WriteString("\n")
		if q.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(theme.Body.Width(width).Render(q.Explanation))
		}
		if q.Note != "" {
			b.WriteString("\n")
			b.WriteString(theme.Note.Width(width).Render("Note: " + q.Note))
		}
		b.WriteString("\n\n")
		b.WriteString(renderFlag(s))
	}

	if s.AIExplanation != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Card.Width(width - 2).Render(s.AIExplanation))
	}
	return b.String()
}

func (p *PracticeScreen) renderStatus(s *quiz.Session) string {
	if p.busy {
		return theme.Hint.Render("Working…")
	}
	switch {
	case s.Err != nil:
		return theme.Incorrect.Render(s.Message)
	case s.Phase == quiz.PhaseGraded && s.Correct:
		return theme.Correct.Render(s.Message)
	case s.Phase == quiz.PhaseGraded:
		return theme.Incorrect.Render(s.Message)
	default:
		return theme.Hint.Render(s.Message)
	}
}

func renderFilters(s *quiz.Session) string {
	box := func(on bool, label string) string {
		if on {
			return theme.Flag.Render("[x] " + label)
		}
		return theme.Hint.Render("[ ] " + label)
	}
	return box(s.Filter.FlaggedOnly, "Flagged only (f)") + "   " +
		box(s.Filter.IncorrectOnly, "Incorrect only (i)") + "   " +
		theme.Hint.Render("showing "+filterLabel(s.Filter))
}

func renderFlag(s *quiz.Session) string {
	if s.FlagChecked {
		return theme.Flag.Render("[x] Flag for review (r)")
	}
	return theme.Hint.Render("[ ] Flag for review (r)")
}
