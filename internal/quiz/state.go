package quiz

import (
	"github.com/google/uuid"

	"github.com/abhisek/drillbook/internal/store"
)

// Mode is a top-level menu entry.
type Mode int

const (
	ModeSolve  Mode = iota // Random questions from the whole bank
	ModeReview             // Random questions narrowed by Session.Filter
	ModeImport             // Load a CSV file into the bank
	ModeExport             // Dump the bank to a CSV file
)

// Modes lists the menu entries in display order.
var Modes = []Mode{ModeSolve, ModeReview, ModeImport, ModeExport}

func (m Mode) String() string {
	switch m {
	case ModeSolve:
		return "Solve"
	case ModeReview:
		return "Review"
	case ModeImport:
		return "Import"
	case ModeExport:
		return "Export"
	default:
		return "Unknown"
	}
}

// Asks reports whether the mode serves questions.
func (m Mode) Asks() bool {
	return m == ModeSolve || m == ModeReview
}

// Phase is the per-question state of a Solve or Review session.
type Phase int

const (
	PhaseIdle      Phase = iota // Nothing fetched yet
	PhaseAnswering              // Question shown, answer controls active
	PhaseGraded                 // Result and explanation shown
	PhaseEmpty                  // The last fetch matched nothing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnswering:
		return "answering"
	case PhaseGraded:
		return "graded"
	case PhaseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Session is the state of one interaction sequence. Handlers on Controller
// take it explicitly; nothing about it is global.
type Session struct {
	// ID identifies the session in logs.
	ID string

	// Mode is the active menu entry.
	Mode Mode

	// Filter narrows Review fetches. It survives Reset.
	Filter store.Filter

	// Phase is the current per-question phase.
	Phase Phase

	// Question is the question on screen (nil when idle or empty).
	Question *store.Question

	// Selected marks chosen options by index into Question.Options.
	Selected []bool

	// Correct is the outcome of the last submit.
	Correct bool

	// ShowExplanation is true once the answer has been graded.
	ShowExplanation bool

	// FlagChecked mirrors the flag-for-review checkbox.
	FlagChecked bool

	// AIExplanation holds a generated explanation for the graded question.
	AIExplanation string

	// Message is the status line for the current state.
	Message string

	// Err is the last handler failure, cleared on the next transition.
	Err error
}

// NewSession returns an idle Solve session.
func NewSession() *Session {
	s := &Session{ID: uuid.NewString(), Mode: ModeSolve}
	s.Reset()
	return s
}

// Reset clears the question and everything derived from it.
func (s *Session) Reset() {
	s.Phase = PhaseIdle
	s.Question = nil
	s.Selected = nil
	s.Correct = false
	s.ShowExplanation = false
	s.FlagChecked = false
	s.AIExplanation = ""
	s.Err = nil
	s.Message = idleMessage(s.Mode)
}

// Clone returns a deep copy, so a copy can be handed to a background
// command while the live session is still being rendered.
func (s *Session) Clone() *Session {
	c := *s
	if s.Question != nil {
		q := *s.Question
		q.Options = append([]string(nil), s.Question.Options...)
		q.Correct = append([]string(nil), s.Question.Correct...)
		c.Question = &q
	}
	c.Selected = append([]bool(nil), s.Selected...)
	return &c
}

// Answers returns the selected option labels in display order.
func (s *Session) Answers() []string {
	if s.Question == nil {
		return nil
	}
	var out []string
	for i, on := range s.Selected {
		if on {
			out = append(out, s.Question.Options[i])
		}
	}
	return out
}

// MultiAnswer reports whether the current question uses toggles rather
// than a single choice.
func (s *Session) MultiAnswer() bool {
	return s.Question != nil && s.Question.MultiAnswer()
}
