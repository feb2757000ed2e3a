// Package practice is the question screen shared by Solve and Review.
package practice

import (
	"context"
	"fmt"
	"log"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillbook/internal/quiz"
	"github.com/abhisek/drillbook/internal/screen"
	"github.com/abhisek/drillbook/internal/store"
	"github.com/abhisek/drillbook/internal/ui/layout"
)

// PracticeScreen asks questions in Solve or Review mode.
type PracticeScreen struct {
	ctrl    *quiz.Controller
	mode    quiz.Mode
	session *quiz.Session
	cursor  int
	gen     int
	busy    bool
	stats   quiz.Stats
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a practice screen for mode, which must be Solve or Review.
func New(ctrl *quiz.Controller, mode quiz.Mode) *PracticeScreen {
	s := quiz.NewSession()
	s.Mode = mode
	s.Reset()
	return &PracticeScreen{ctrl: ctrl, mode: mode, session: s}
}

// Session returns the screen's session.
func (p *PracticeScreen) Session() *quiz.Session {
	return p.session
}

func (p *PracticeScreen) Title() string {
	return p.mode.String()
}

func (p *PracticeScreen) Init() tea.Cmd {
	p.gen++
	p.busy = false
	p.cursor = 0
	p.ctrl.Enter(p.session, p.mode)
	return p.loadStats()
}

func (p *PracticeScreen) Status() string {
	return fmt.Sprintf("%d questions · %d missed · %d flagged", p.stats.Total, p.stats.Missed, p.stats.Flagged)
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	if p.busy {
		return []layout.KeyHint{{Key: "…", Description: "Working"}}
	}

	hints := []layout.KeyHint{{Key: "n", Description: "Next"}}
	if p.session.Question != nil {
		toggle := "Choose"
		if p.session.MultiAnswer() {
			toggle = "Toggle"
		}
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: toggle},
			layout.KeyHint{Key: "Enter", Description: "Submit"},
		)
	}
	if p.session.Phase == quiz.PhaseGraded {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Flag"})
		if p.ctrl.CanExplain() {
			hints = append(hints, layout.KeyHint{Key: "x", Description: "Explain"})
		}
	}
	if p.mode == quiz.ModeReview {
		hints = append(hints,
			layout.KeyHint{Key: "f", Description: "Flagged only"},
			layout.KeyHint{Key: "i", Description: "Incorrect only"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Tab", Description: "Menu"})
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		if msg.mode != p.mode || msg.gen != p.gen {
			return p, nil
		}
		p.busy = false
		p.session = msg.session
		if msg.stats != nil {
			p.stats = *msg.stats
		}
		return p, nil

	case statsMsg:
		if msg.mode == p.mode {
			p.stats = msg.stats
		}
		return p, nil

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if p.busy {
		return p, nil
	}
	s := p.session

	switch msg.String() {
	case "n":
		p.cursor = 0
		return p, p.run(p.ctrl.Fetch)

	case "up", "k":
		if s.Question != nil && p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if s.Question != nil && p.cursor < len(s.Question.Options)-1 {
			p.cursor++
		}

	case "space":
		if s.Question == nil {
			return p, nil
		}
		var err error
		if s.MultiAnswer() {
			err = p.ctrl.Toggle(s, p.cursor)
		} else {
			err = p.ctrl.Choose(s, p.cursor)
		}
		if err != nil {
			log.Printf("session %s: %v", s.ID, err)
		}

	case "enter":
		if s.Phase == quiz.PhaseAnswering || s.Phase == quiz.PhaseGraded {
			return p, p.run(p.ctrl.Submit)
		}

	case "r":
		if s.Phase == quiz.PhaseGraded {
			checked := !s.FlagChecked
			return p, p.run(func(ctx context.Context, s *quiz.Session) error {
				return p.ctrl.CheckFlag(ctx, s, checked)
			})
		}

	case "x":
		if s.Phase == quiz.PhaseGraded && s.AIExplanation == "" {
			return p, p.run(p.ctrl.Explain)
		}

	case "f":
		if p.mode == quiz.ModeReview {
			f := s.Filter
			f.FlaggedOnly = !f.FlaggedOnly
			p.ctrl.SetFilter(s, f)
		}
	case "i":
		if p.mode == quiz.ModeReview {
			f := s.Filter
			f.IncorrectOnly = !f.IncorrectOnly
			p.ctrl.SetFilter(s, f)
		}
	}
	return p, nil
}

// run applies handler to a copy of the session in the background. Handler
// errors are already recorded on the session for display.
func (p *PracticeScreen) run(handler func(context.Context, *quiz.Session) error) tea.Cmd {
	p.busy = true
	s := p.session.Clone()
	mode, gen, ctrl := p.mode, p.gen, p.ctrl

	return func() tea.Msg {
		ctx := context.Background()
		_ = handler(ctx, s)

		msg := sessionMsg{mode: mode, gen: gen, session: s}
		if stats, err := ctrl.Stats(ctx); err == nil {
			msg.stats = &stats
		}
		return msg
	}
}

func (p *PracticeScreen) loadStats() tea.Cmd {
	mode, ctrl := p.mode, p.ctrl
	return func() tea.Msg {
		stats, err := ctrl.Stats(context.Background())
		if err != nil {
			log.Printf("load stats: %v", err)
			return nil
		}
		return statsMsg{mode: mode, stats: stats}
	}
}

// filterLabel describes the Review filter for the status line.
func filterLabel(f store.Filter) string {
	switch {
	case f.FlaggedOnly && f.IncorrectOnly:
		return "flagged and incorrect"
	case f.FlaggedOnly:
		return "flagged"
	case f.IncorrectOnly:
		return "incorrect"
	default:
		return "all questions"
	}
}
